package domain

import "errors"

// Result is the envelope returned to API callers. Failed results are written
// by middleware.ErrorHandler and carry a human readable message, never the
// underlying error.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func OK[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

// FailureMessage turns a service error into text that is safe to show to users.
func FailureMessage(err error) string {
	var msgErr *MessageError
	if errors.As(err, &msgErr) {
		return msgErr.Message
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "The requested content does not exist or is no longer visible"
	case errors.Is(err, ErrForbidden):
		return "You are not allowed to change this content"
	case errors.Is(err, ErrValidation):
		return "The request is invalid"
	case errors.Is(err, ErrCommit):
		return "The change could not be saved, please try again"
	}
	return "Something went wrong"
}

// MessageError attaches a user facing message to one of the sentinel errors.
type MessageError struct {
	Kind    error
	Message string
}

func (e *MessageError) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *MessageError) Unwrap() error {
	return e.Kind
}

func NotFound(message string) error {
	return &MessageError{Kind: ErrNotFound, Message: message}
}

func Forbidden(message string) error {
	return &MessageError{Kind: ErrForbidden, Message: message}
}

func Invalid(message string) error {
	return &MessageError{Kind: ErrValidation, Message: message}
}
