package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *recordingPublisher) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	pub := &recordingPublisher{}
	return NewService(NewRepository(db), pub, zerolog.New(zerolog.NewTestWriter(t)), 20), mock, pub
}

var (
	applicant = user.Actor{UserID: "u1", Name: "Ada", Role: user.RoleApplicant, ProfileID: "p1"}
	employer  = user.Actor{UserID: "emp-1", Name: "Grace", Role: user.RoleEmployer, CompanyID: "c1"}
	outsider  = user.Actor{UserID: "u9", Role: user.RoleApplicant}
)

// ===========================
// Send
// ===========================

func TestSend_PublishesInOrder(t *testing.T) {
	svc, mock, pub := newTestService(t)

	const n = 3
	for i := 0; i < n; i++ {
		content := fmt.Sprintf("message %d", i)
		expectConversation(mock, "conv-1", "emp-1", "u1")
		expectAppend(mock, "conv-1", "emp-1", content, int64(3+i))
	}

	for i := 0; i < n; i++ {
		m, err := svc.Send(context.Background(), employer, "conv-1", fmt.Sprintf("message %d", i))
		require.NoError(t, err)
		assert.Equal(t, "emp-1", m.SenderID)
	}

	require.Len(t, pub.msgs, n)
	for i, m := range pub.msgs {
		assert.Equal(t, fmt.Sprintf("message %d", i), m.Content)
		if i > 0 {
			assert.Greater(t, m.ID, pub.msgs[i-1].ID)
		}
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_NonParticipant(t *testing.T) {
	svc, mock, pub := newTestService(t)
	expectConversation(mock, "conv-1", "emp-1", "u1")

	_, err := svc.Send(context.Background(), outsider, "conv-1", "hi")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	assert.Empty(t, pub.msgs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_EmptyContent(t *testing.T) {
	svc, mock, _ := newTestService(t)

	_, err := svc.Send(context.Background(), applicant, "conv-1", "   ")
	assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSend_PublishFailureIsBestEffort(t *testing.T) {
	svc, mock, pub := newTestService(t)
	pub.err = errors.New("redis down")
	expectConversation(mock, "conv-1", "emp-1", "u1")
	expectAppend(mock, "conv-1", "u1", "Hello", 3)

	m, err := svc.Send(context.Background(), applicant, "conv-1", "Hello")
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.ID)
}

// ===========================
// Messages
// ===========================

func TestMessages_SeedPlusSent(t *testing.T) {
	svc, mock, _ := newTestService(t)
	now := time.Now().UTC()
	expectConversation(mock, "conv-1", "emp-1", "u1")
	mock.ExpectQuery("FROM conversation_message").
		WithArgs("conv-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(messageColumns).
			AddRow(int64(1), "conv-1", "u1", "Job Title : Go Engineer", now).
			AddRow(int64(2), "conv-1", "u1", "I love Go.", now).
			AddRow(int64(3), "conv-1", "emp-1", "Hello", now.Add(time.Second)))

	msgs, err := svc.Messages(context.Background(), applicant, "conv-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "Hello", msgs[2].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessages_SizeCapped(t *testing.T) {
	svc, mock, _ := newTestService(t)
	expectConversation(mock, "conv-1", "emp-1", "u1")
	mock.ExpectQuery("FROM conversation_message").
		WithArgs("conv-1", 100, 200).
		WillReturnRows(sqlmock.NewRows(messageColumns))

	msgs, err := svc.Messages(context.Background(), employer, "conv-1", 2, 1000)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessages_Errors(t *testing.T) {
	t.Run("unknown conversation", func(t *testing.T) {
		svc, mock, _ := newTestService(t)
		mock.ExpectQuery("FROM conversation WHERE id").WillReturnError(sql.ErrNoRows)

		_, err := svc.Messages(context.Background(), applicant, "nope", 0, 10)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
	t.Run("non participant", func(t *testing.T) {
		svc, mock, _ := newTestService(t)
		expectConversation(mock, "conv-1", "emp-1", "u1")

		_, err := svc.Messages(context.Background(), outsider, "conv-1", 0, 10)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		assert.NotContains(t, err.Error(), "conv-1")
	})
	t.Run("negative page", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Messages(context.Background(), applicant, "conv-1", -1, 10)
		assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
	})
}

func TestKeyedMutex_ReleasesKeys(t *testing.T) {
	k := newKeyedMutex()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("conv-1")
			counter++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Empty(t, k.locks)
}
