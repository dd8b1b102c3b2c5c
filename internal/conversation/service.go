package conversation

import (
	"context"
	"strings"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/metrics"
	"github.com/0x13a/jobstream/internal/user"

	"github.com/rs/zerolog"
)

const maxMessagesPerPage = 100

type publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Service enforces participant access on top of the Repository and pushes
// sent messages to the real-time channel of their conversation.
type Service struct {
	repo            *Repository
	pub             publisher
	locks           *keyedMutex
	log             zerolog.Logger
	messagesPerPage int
}

func NewService(repo *Repository, pub publisher, logger zerolog.Logger, messagesPerPage int) *Service {
	if messagesPerPage <= 0 {
		messagesPerPage = 20
	}
	return &Service{
		repo:            repo,
		pub:             pub,
		locks:           newKeyedMutex(),
		log:             logger.With().Str("component", "conversation").Logger(),
		messagesPerPage: messagesPerPage,
	}
}

func (s *Service) ListFor(ctx context.Context, actor user.Actor) ([]Conversation, error) {
	return s.repo.ListFor(ctx, actor.UserID)
}

// Conversation returns the header of a conversation the actor takes part in.
func (s *Service) Conversation(ctx context.Context, actor user.Actor, conversationID string) (Conversation, error) {
	c, err := s.repo.ConversationByID(ctx, conversationID)
	if err != nil {
		return Conversation{}, err
	}
	if !c.HasParticipant(actor.UserID) {
		return Conversation{}, apperror.AccessDenied()
	}
	return c, nil
}

// Messages returns page (0-based) of the conversation in send order.
// A size outside 1..100 falls back to the configured default or the cap.
func (s *Service) Messages(ctx context.Context, actor user.Actor, conversationID string, page, size int) ([]Message, error) {
	if page < 0 {
		return nil, apperror.Invalid("page cannot be negative")
	}
	if size <= 0 {
		size = s.messagesPerPage
	}
	if size > maxMessagesPerPage {
		size = maxMessagesPerPage
	}
	if _, err := s.Conversation(ctx, actor, conversationID); err != nil {
		return nil, err
	}
	return s.repo.Messages(ctx, conversationID, size, page*size)
}

// Send appends content as a message from actor and publishes it.
// Append and publish run under a per-conversation lock so subscribers see
// messages in the order they were stored.
func (s *Service) Send(ctx context.Context, actor user.Actor, conversationID, content string) (Message, error) {
	if strings.TrimSpace(content) == "" {
		return Message{}, apperror.Invalid("message content cannot be empty")
	}
	unlock := s.locks.Lock(conversationID)
	defer unlock()

	if _, err := s.Conversation(ctx, actor, conversationID); err != nil {
		return Message{}, err
	}
	m, err := s.repo.AppendMessage(ctx, conversationID, actor.UserID, content)
	if err != nil {
		return Message{}, err
	}
	metrics.MessagesSent.Inc()
	if err := s.pub.Publish(ctx, m); err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conversationID).Int64("message_id", m.ID).Msg("unable to publish message")
	}
	return m, nil
}
