package conversation

import (
	"context"
	"database/sql"
	"time"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/database"

	"github.com/pkg/errors"
)

type Repository struct {
	db database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{db}
}

func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{tx}
}

func (r *Repository) Create(ctx context.Context, c Conversation) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO conversation (id, employer_id, employer_name, applicant_id, applicant_name, application_id, is_active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, c.ID, c.EmployerID, c.EmployerName, c.ApplicantID, c.ApplicantName, c.ApplicationID, c.IsActive, c.CreatedAt)
	if database.IsUniqueViolation(err) {
		return apperror.DuplicateConversation()
	}
	if err != nil {
		return errors.Wrap(err, "unable to create conversation")
	}
	return nil
}

// ConversationByID loads the conversation header without messages.
func (r *Repository) ConversationByID(ctx context.Context, id string) (Conversation, error) {
	c := Conversation{}
	row := r.db.QueryRowContext(ctx, `SELECT id, employer_id, employer_name, applicant_id, applicant_name, application_id, is_active, created_at FROM conversation WHERE id = $1`, id)
	err := row.Scan(&c.ID, &c.EmployerID, &c.EmployerName, &c.ApplicantID, &c.ApplicantName, &c.ApplicationID, &c.IsActive, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, apperror.ConversationNotFound()
	}
	if err != nil {
		return c, errors.Wrap(err, "unable to get conversation")
	}
	return c, nil
}

// ListFor returns every conversation userID takes part in, newest first.
// Message bodies are never loaded.
func (r *Repository) ListFor(ctx context.Context, userID string) ([]Conversation, error) {
	res := make([]Conversation, 0)
	rows, err := r.db.QueryContext(ctx, `SELECT id, employer_id, employer_name, applicant_id, applicant_name, application_id, is_active, created_at
	FROM conversation
	WHERE employer_id = $1 OR applicant_id = $1
	ORDER BY created_at DESC`, userID)
	if err != nil {
		return res, errors.Wrap(err, "unable to list conversations")
	}
	defer rows.Close()
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.EmployerID, &c.EmployerName, &c.ApplicantID, &c.ApplicantName, &c.ApplicationID, &c.IsActive, &c.CreatedAt); err != nil {
			return res, errors.Wrap(err, "unable to scan conversation")
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// Messages returns a chronological window of a conversation's messages.
func (r *Repository) Messages(ctx context.Context, conversationID string, limit, offset int) ([]Message, error) {
	res := make([]Message, 0)
	rows, err := r.db.QueryContext(ctx, `SELECT id, conversation_id, sender_id, content, created_at
	FROM conversation_message
	WHERE conversation_id = $1
	ORDER BY id ASC
	LIMIT $2 OFFSET $3`, conversationID, limit, offset)
	if err != nil {
		return res, errors.Wrap(err, "unable to get conversation messages")
	}
	defer rows.Close()
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Timestamp); err != nil {
			return res, errors.Wrap(err, "unable to scan conversation message")
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

// AppendMessage adds one message row. The insert only succeeds when the
// conversation exists, so concurrent appends never overwrite each other.
func (r *Repository) AppendMessage(ctx context.Context, conversationID, senderID, content string) (Message, error) {
	m := Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Timestamp:      time.Now().UTC(),
	}
	row := r.db.QueryRowContext(ctx, `INSERT INTO conversation_message (conversation_id, sender_id, content, created_at)
	SELECT $1::text, $2::text, $3::text, $4::timestamp
	WHERE EXISTS (SELECT 1 FROM conversation WHERE id = $1::text)
	RETURNING id`, m.ConversationID, m.SenderID, m.Content, m.Timestamp)
	err := row.Scan(&m.ID)
	if err == sql.ErrNoRows {
		return Message{}, apperror.ConversationNotFound()
	}
	if err != nil {
		return Message{}, errors.Wrap(err, "unable to append message")
	}
	return m, nil
}
