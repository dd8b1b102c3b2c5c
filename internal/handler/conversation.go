package handler

import (
	"context"
	"net/http"

	"github.com/0x13a/jobstream/internal/conversation"
	"github.com/0x13a/jobstream/internal/server"
	"github.com/0x13a/jobstream/internal/user"

	humanize "github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
)

type conversationService interface {
	ListFor(ctx context.Context, actor user.Actor) ([]conversation.Conversation, error)
	Conversation(ctx context.Context, actor user.Actor, conversationID string) (conversation.Conversation, error)
	Messages(ctx context.Context, actor user.Actor, conversationID string, page, size int) ([]conversation.Message, error)
	Send(ctx context.Context, actor user.Actor, conversationID, content string) (conversation.Message, error)
}

type messageResponse struct {
	conversation.Message
	SentAgo string `json:"sentAgo"`
}

func MyConversationsHandler(svr server.Server, conversations conversationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(svr, w, r)
		if !ok {
			return
		}
		list, err := conversations.ListFor(r.Context(), actor)
		if err != nil {
			svr.Error(w, err, "unable to list conversations")
			return
		}
		svr.JSON(w, http.StatusOK, list)
	}
}

func ConversationMessagesHandler(svr server.Server, conversations conversationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(svr, w, r)
		if !ok {
			return
		}
		page, size, err := pageParams(r)
		if err != nil {
			svr.Error(w, err, "")
			return
		}
		msgs, err := conversations.Messages(r.Context(), actor, mux.Vars(r)["id"], page, size)
		if err != nil {
			svr.Error(w, err, "unable to get conversation messages")
			return
		}
		out := make([]messageResponse, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, messageResponse{Message: m, SentAgo: humanize.Time(m.Timestamp)})
		}
		svr.JSON(w, http.StatusOK, out)
	}
}

func SendMessageHandler(svr server.Server, conversations conversationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(svr, w, r)
		if !ok {
			return
		}
		req := &struct {
			Content string `json:"content"`
		}{}
		if err := decodeJSON(w, r, req); err != nil {
			svr.Error(w, err, "")
			return
		}
		msg, err := conversations.Send(r.Context(), actor, mux.Vars(r)["id"], stripTags(req.Content))
		if err != nil {
			svr.Error(w, err, "unable to send message")
			return
		}
		svr.JSON(w, http.StatusCreated, msg)
	}
}
