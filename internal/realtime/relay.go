package realtime

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/0x13a/jobstream/internal/conversation"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const channelPrefix = "conversation:"

// RedisRelay carries published messages between instances. Publish goes to
// Redis only; Run feeds everything Redis sends back into the local Hub, so
// every instance, the publishing one included, delivers the message once.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
	ready  chan struct{}
	log    zerolog.Logger
}

func NewRedisRelay(client *redis.Client, hub *Hub, logger zerolog.Logger) *RedisRelay {
	return &RedisRelay{
		client: client,
		hub:    hub,
		ready:  make(chan struct{}),
		log:    logger.With().Str("component", "relay").Logger(),
	}
}

// Ready is closed once Run holds the pattern subscription.
func (r *RedisRelay) Ready() <-chan struct{} {
	return r.ready
}

func (r *RedisRelay) Publish(ctx context.Context, msg conversation.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "unable to encode message")
	}
	if err := r.client.Publish(ctx, channelPrefix+msg.ConversationID, payload).Err(); err != nil {
		return errors.Wrapf(err, "unable to publish on %s", channelPrefix+msg.ConversationID)
	}
	return nil
}

// Run blocks until ctx is done or the subscription fails. It must be
// called at most once.
func (r *RedisRelay) Run(ctx context.Context) error {
	ps := r.client.PSubscribe(ctx, channelPrefix+"*")
	defer ps.Close()
	if _, err := ps.Receive(ctx); err != nil {
		return errors.Wrap(err, "unable to subscribe to conversation channels")
	}
	close(r.ready)
	r.log.Info().Msg("relay subscribed")

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg conversation.Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				r.log.Error().Err(err).Str("channel", m.Channel).Msg("unable to decode relayed message")
				continue
			}
			if msg.ConversationID == "" {
				msg.ConversationID = strings.TrimPrefix(m.Channel, channelPrefix)
			}
			r.hub.Deliver(msg)
		}
	}
}
