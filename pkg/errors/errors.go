package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. User-facing messages are kept in Arabic where the portal
// surfaces them directly; the code and logs carry the real cause.
var (
	// Local validation of the national identifier, raised before any lookup.
	ErrInvalidNationalID = New("INVALID_NATIONAL_ID", http.StatusBadRequest, "يرجى إدخال رقم قومي صحيح مكون من 14 رقم")
	// Zero matching rows on the login lookup. Deliberately generic: the user
	// cannot tell "no such id" apart from a rejected id.
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "بيانات الدخول غير صحيحة، يرجى مراجعة شؤون الطلاب")
	// Row-backend unreachable or failing. Distinct from the credentials error.
	ErrBackendUnavailable = New("BACKEND_UNAVAILABLE", http.StatusBadGateway, "حدث خطأ في الاتصال بالسيرفر")
	// Material row carries no url; the action is blocked without a call.
	ErrLinkUnavailable = New("LINK_UNAVAILABLE", http.StatusConflict, "عذراً، الرابط الخاص بهذا الملف غير متوفر حالياً")
	// A chat turn is already in flight.
	ErrAssistantBusy = New("ASSISTANT_BUSY", http.StatusConflict, "assistant turn already in flight")
	// Empty or whitespace-only chat prompt.
	ErrEmptyPrompt = New("EMPTY_PROMPT", http.StatusBadRequest, "empty prompt")

	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == target.Code
}
