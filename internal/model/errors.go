package model

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing required field or an enum value outside
// its allowed set.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors).
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports a lookup miss by id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Kind, e.ID)
}

// IsNotFoundError checks if error is NotFoundError.
func IsNotFoundError(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}

// InvalidStateError reports an illegal lifecycle transition. The record is
// left unchanged.
type InvalidStateError struct {
	Kind    string
	ID      string
	Message string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.ID, e.Message)
}

// IsInvalidStateError checks if error is InvalidStateError.
func IsInvalidStateError(err error) bool {
	var se InvalidStateError
	return errors.As(err, &se)
}

// StorageError reports an unreadable or malformed backing file. It wraps the
// underlying cause and is fatal for the affected collection.
type StorageError struct {
	File string
	Err  error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.File, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

// IsStorageError checks if error is StorageError.
func IsStorageError(err error) bool {
	var se StorageError
	return errors.As(err, &se)
}

// CoachError reports a failed external language-model call. The underlying
// cause is attached; there is no fallback response.
type CoachError struct {
	Op  string
	Err error
}

func (e CoachError) Error() string {
	return fmt.Sprintf("coach %s: %v", e.Op, e.Err)
}

func (e CoachError) Unwrap() error { return e.Err }

// IsCoachError checks if error is CoachError.
func IsCoachError(err error) bool {
	var ce CoachError
	return errors.As(err, &ce)
}
