package apperror

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ApplicationNotFound(), http.StatusNotFound},
		{"conflict", DuplicateApplication(), http.StatusConflict},
		{"forbidden", AccessDenied(), http.StatusForbidden},
		{"validation", ProfileIncomplete(), http.StatusBadRequest},
		{"unauthenticated", Unauthenticated("missing token"), http.StatusUnauthorized},
		{"storage", sql.ErrConnDone, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(KindOf(tt.err)))
		})
	}
}

func TestFrom_WrappedDomainError(t *testing.T) {
	err := errors.Wrap(ConversationNotFound(), "loading conversation")

	e := From(err)
	assert.Equal(t, KindNotFound, e.Kind)
	assert.Equal(t, CodeConversationNotFound, e.Code)
	assert.True(t, errors.Is(err, ConversationNotFound()))
	assert.False(t, errors.Is(err, ApplicationNotFound()))
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	e := From(cause)

	assert.Equal(t, KindInternal, e.Kind)
	assert.Equal(t, "internal error", e.Message)
	assert.Equal(t, cause, errors.Cause(e.Unwrap()))
}

func TestAccessDenied_NoIdentifiers(t *testing.T) {
	assert.NotContains(t, AccessDenied().Message, "id")
	assert.Equal(t, "ACCESS_DENIED: you are not allowed to perform this action", AccessDenied().Error())
}

func TestKindOf_Nil(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
}
