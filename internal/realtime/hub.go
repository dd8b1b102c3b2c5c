package realtime

import (
	"context"
	"sync"

	"github.com/0x13a/jobstream/internal/conversation"
	"github.com/0x13a/jobstream/internal/metrics"

	"github.com/rs/zerolog"
)

const defaultBufferSize = 64

// Subscription receives the messages published on one conversation channel.
// C is closed by Hub.Unsubscribe.
type Subscription struct {
	conversationID string
	ch             chan conversation.Message
}

func (s *Subscription) C() <-chan conversation.Message {
	return s.ch
}

func (s *Subscription) ConversationID() string {
	return s.conversationID
}

// Hub fans messages out to the subscribers of a conversation on this
// instance. Delivery is at most once: a subscriber whose buffer is full
// misses the message and the publisher never blocks.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	log    zerolog.Logger
}

func NewHub(logger zerolog.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBufferSize
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		log:    logger.With().Str("component", "hub").Logger(),
	}
}

func (h *Hub) Subscribe(conversationID string) *Subscription {
	s := &Subscription{conversationID: conversationID, ch: make(chan conversation.Message, h.buffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[conversationID] == nil {
		h.subs[conversationID] = make(map[*Subscription]struct{})
	}
	h.subs[conversationID][s] = struct{}{}
	metrics.FanOutSubscribers.Inc()
	return s
}

func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subs[s.conversationID]
	if !ok {
		return
	}
	if _, ok := subs[s]; !ok {
		return
	}
	delete(subs, s)
	if len(subs) == 0 {
		delete(h.subs, s.conversationID)
	}
	close(s.ch)
	metrics.FanOutSubscribers.Dec()
}

// Publish delivers msg to local subscribers only.
func (h *Hub) Publish(ctx context.Context, msg conversation.Message) error {
	h.Deliver(msg)
	return nil
}

func (h *Hub) Deliver(msg conversation.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[msg.ConversationID] {
		select {
		case s.ch <- msg:
		default:
			metrics.FanOutDropped.Inc()
			h.log.Warn().Str("conversation_id", msg.ConversationID).Int64("message_id", msg.ID).Msg("subscriber buffer full, message dropped")
		}
	}
}

func (h *Hub) SubscriberCount(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[conversationID])
}
