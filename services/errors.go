package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a service failure so the HTTP layer can pick a status code
// without inspecting message text.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindInvalidInput
	KindInsufficientStock
	KindInvalidTransition
	KindDuplicatePayment
	KindConflict
)

// Error is a service-level failure with a classification and a message
// suitable for the API response body.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, or 0 if err is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// HTTPStatus maps a service error to a response status code. Unclassified
// errors are treated as internal.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidInput, KindInsufficientStock, KindInvalidTransition, KindDuplicatePayment:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
