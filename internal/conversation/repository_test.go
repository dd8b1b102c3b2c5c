package conversation

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/0x13a/jobstream/internal/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	conversationColumns = []string{"id", "employer_id", "employer_name", "applicant_id", "applicant_name", "application_id", "is_active", "created_at"}
	messageColumns      = []string{"id", "conversation_id", "sender_id", "content", "created_at"}
)

func expectConversation(mock sqlmock.Sqlmock, id, employerID, applicantID string) {
	mock.ExpectQuery(`SELECT id, employer_id, .* FROM conversation WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(conversationColumns).
			AddRow(id, employerID, "Grace", applicantID, "Ada", "app-1", true, time.Now().UTC()))
}

func expectAppend(mock sqlmock.Sqlmock, conversationID interface{}, senderID, content string, id int64) {
	mock.ExpectQuery("INSERT INTO conversation_message").
		WithArgs(conversationID, senderID, content, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
}

func TestCreate_DuplicateApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO conversation \(`).WillReturnError(&pq.Error{Code: "23505"})

	err = NewRepository(db).Create(context.Background(), Conversation{ID: "conv-1", ApplicationID: "app-1"})
	assert.Equal(t, apperror.CodeDuplicateConversation, apperror.From(err).Code)
}

func TestConversationByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM conversation WHERE id").WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err = NewRepository(db).ConversationByID(context.Background(), "nope")
	assert.Equal(t, apperror.CodeConversationNotFound, apperror.From(err).Code)
}

func TestListFor_Thin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`WHERE employer_id = \$1 OR applicant_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(conversationColumns).
			AddRow("conv-2", "emp-1", "Grace", "u1", "Ada", "app-2", true, now).
			AddRow("conv-1", "u1", "Ada", "app-x", "Linus", "app-1", true, now.Add(-time.Hour)))

	list, err := NewRepository(db).ListFor(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, c := range list {
		assert.Nil(t, c.Messages)
		assert.True(t, c.HasParticipant("u1"))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessages_Window(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM conversation_message\s+WHERE conversation_id = \$1\s+ORDER BY id ASC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("conv-1", 2, 4).
		WillReturnRows(sqlmock.NewRows(messageColumns).
			AddRow(int64(5), "conv-1", "u1", "five", now).
			AddRow(int64(6), "conv-1", "u2", "six", now))

	msgs, err := NewRepository(db).Messages(context.Background(), "conv-1", 2, 4)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "five", msgs[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectAppend(mock, "conv-1", "u1", "Hello", 3)

	m, err := NewRepository(db).AppendMessage(context.Background(), "conv-1", "u1", "Hello")
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.ID)
	assert.Equal(t, "conv-1", m.ConversationID)
	assert.False(t, m.Timestamp.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendMessage_UnknownConversation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO conversation_message").WillReturnError(sql.ErrNoRows)

	_, err = NewRepository(db).AppendMessage(context.Background(), "ghost", "u1", "Hello")
	assert.Equal(t, apperror.CodeConversationNotFound, apperror.From(err).Code)
}
