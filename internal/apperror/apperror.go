package apperror

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Kind is the stable category of a failure. Handlers map it to a transport
// status, callers branch on it.
type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
	KindForbidden        Kind = "FORBIDDEN"
	KindValidationFailed Kind = "VALIDATION_FAILED"
	KindUnauthenticated  Kind = "UNAUTHENTICATED"
	KindInternal         Kind = "INTERNAL"
)

// Code identifies the concrete failure within a Kind.
type Code string

const (
	CodeApplicationNotFound      Code = "APPLICATION_NOT_FOUND"
	CodeJobNotFound              Code = "JOB_NOT_FOUND"
	CodeConversationNotFound     Code = "CONVERSATION_NOT_FOUND"
	CodeCompanyNotFound          Code = "COMPANY_NOT_FOUND"
	CodeUserNotFound             Code = "USER_NOT_FOUND"
	CodeNoApplications           Code = "NO_APPLICATIONS"
	CodeDuplicateApplication     Code = "DUPLICATE_APPLICATION"
	CodeDuplicateConversation    Code = "DUPLICATE_CONVERSATION"
	CodeCompanyAlreadyRegistered Code = "COMPANY_ALREADY_REGISTERED"
	CodeAccessDenied             Code = "ACCESS_DENIED"
	CodeProfileIncomplete        Code = "PROFILE_INCOMPLETE"
	CodeInvalidStatus            Code = "INVALID_STATUS"
	CodeInvalidInput             Code = "INVALID_INPUT"
	CodeUnauthenticated          Code = "UNAUTHENTICATED"
	CodeInternal                 Code = "INTERNAL_ERROR"
)

type Error struct {
	Kind      Kind      `json:"kind"`
	Code      Code      `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.cause.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on Code so callers can compare against the constructors below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(kind Kind, code Code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Timestamp: time.Now().UTC()}
}

func ApplicationNotFound() *Error {
	return New(KindNotFound, CodeApplicationNotFound, "application not found")
}

func JobNotFound() *Error {
	return New(KindNotFound, CodeJobNotFound, "job not found")
}

func ConversationNotFound() *Error {
	return New(KindNotFound, CodeConversationNotFound, "conversation not found")
}

func CompanyNotFound() *Error {
	return New(KindNotFound, CodeCompanyNotFound, "company not found")
}

func UserNotFound() *Error {
	return New(KindNotFound, CodeUserNotFound, "user not found")
}

func NoApplications() *Error {
	return New(KindNotFound, CodeNoApplications, "no applications found")
}

func DuplicateApplication() *Error {
	return New(KindConflict, CodeDuplicateApplication, "you have already applied to this job")
}

func DuplicateConversation() *Error {
	return New(KindConflict, CodeDuplicateConversation, "a conversation already exists for this application")
}

func CompanyAlreadyRegistered() *Error {
	return New(KindConflict, CodeCompanyAlreadyRegistered, "company already registered")
}

// AccessDenied never carries identifiers of the resource being protected.
func AccessDenied() *Error {
	return New(KindForbidden, CodeAccessDenied, "you are not allowed to perform this action")
}

func ProfileIncomplete() *Error {
	return New(KindValidationFailed, CodeProfileIncomplete, "a candidate profile is required")
}

func InvalidStatus(status string) *Error {
	return New(KindValidationFailed, CodeInvalidStatus, "unknown application status "+status)
}

func Invalid(msg string) *Error {
	return New(KindValidationFailed, CodeInvalidInput, msg)
}

func Unauthenticated(msg string) *Error {
	return New(KindUnauthenticated, CodeUnauthenticated, msg)
}

// Internal hides the cause from clients; it is kept for logging via Unwrap.
func Internal(err error) *Error {
	e := New(KindInternal, CodeInternal, "internal error")
	e.cause = err
	return e
}

// From returns the *Error carried by err, or wraps err as Internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return From(err).Kind
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
