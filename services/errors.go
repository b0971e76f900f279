package services

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// Error kinds surfaced to API callers. Match them with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
	ErrValidation      = errors.New("validation error")
	ErrInvalidToken    = errors.New("invalid token")
)

// ServiceError pairs an error kind with a message that is safe to show to the caller
type ServiceError struct {
	Kind    error
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Kind
}

// NewError creates a ServiceError of the given kind
func NewError(kind error, format string, args ...interface{}) error {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message extracts the caller-facing message of err
func Message(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

// notFoundOr converts gorm's missing-row error into a NotFound error and wraps anything else
// conflictOr turns a unique-index violation that slipped past the existence check
// into a conflict and wraps anything else with action.
func conflictOr(err error, action string, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewError(ErrConflict, format, args...)
	}
	return errors.Wrap(err, action)
}

func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewError(ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, "lookup failed: "+format, args...)
}
