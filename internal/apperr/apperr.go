// Package apperr carries typed errors with the stack captured where they
// were created.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
)

type Type string

const (
	TypeNotFound     Type = "NOT_FOUND"
	TypeInvalidInput Type = "INVALID_INPUT"
	TypeUnavailable  Type = "UNAVAILABLE"
	TypeRateLimit    Type = "RATE_LIMIT"
	TypeConflict     Type = "CONFLICT"
	TypeInternal     Type = "INTERNAL"
)

type DomainError struct {
	Type    Type
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

func New(t Type, message string, err error) *DomainError {
	var stack []byte
	var ge *goerrors.Error
	switch {
	case err == nil:
		stack = goerrors.New(message).Stack()
	case errors.As(err, &ge):
		stack = ge.Stack()
	default:
		stack = goerrors.Wrap(err, 2).Stack()
	}
	return &DomainError{Type: t, Message: message, Err: err, Stack: stack}
}

func NotFound(message string, err error) *DomainError     { return New(TypeNotFound, message, err) }
func InvalidInput(message string, err error) *DomainError { return New(TypeInvalidInput, message, err) }
func Unavailable(message string, err error) *DomainError  { return New(TypeUnavailable, message, err) }
func RateLimit(message string, err error) *DomainError    { return New(TypeRateLimit, message, err) }
func Conflict(message string, err error) *DomainError     { return New(TypeConflict, message, err) }
func Internal(message string, err error) *DomainError     { return New(TypeInternal, message, err) }

// TypeOf returns the type of the outermost DomainError in err's chain, or
// TypeInternal.
func TypeOf(err error) Type {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return TypeInternal
}

func Is(err error, t Type) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Type == t
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case TypeNotFound:
		return http.StatusNotFound
	case TypeInvalidInput:
		return http.StatusBadRequest
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	case TypeRateLimit:
		return http.StatusTooManyRequests
	case TypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
