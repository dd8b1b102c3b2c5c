package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/0x13a/jobstream/internal/realtime"
	"github.com/0x13a/jobstream/internal/server"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

type subscriber interface {
	Subscribe(conversationID string) *realtime.Subscription
	Unsubscribe(s *realtime.Subscription)
}

// checkOrigin allows the configured origins, or same host when none are set.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowed) == 0 {
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		}
		for _, o := range allowed {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// ChatHandler upgrades participants of a conversation to a websocket that
// receives every message sent to it and can send its own.
func ChatHandler(svr server.Server, conversations conversationService, hub subscriber) http.HandlerFunc {
	cfg := svr.GetConfig()
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(cfg.ChatAllowedOrigins),
	}
	logger := svr.Logger().With().Str("component", "chat").Logger()
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(svr, w, r)
		if !ok {
			return
		}
		conversationID := mux.Vars(r)["id"]
		if _, err := conversations.Conversation(r.Context(), actor, conversationID); err != nil {
			svr.Error(w, err, "unable to open chat")
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("websocket upgrade failed")
			return
		}
		sub := hub.Subscribe(conversationID)
		defer hub.Unsubscribe(sub)

		send := func(ctx context.Context, content string) error {
			_, err := conversations.Send(ctx, actor, conversationID, stripTags(content))
			return err
		}
		limiter := rate.NewLimiter(rate.Limit(cfg.ChatSendRate), cfg.ChatSendBurst)
		realtime.NewSession(conn, sub, limiter, send, logger.With().Str("user_id", actor.UserID).Logger()).Serve(r.Context())
	}
}
