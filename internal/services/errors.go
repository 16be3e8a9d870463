package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicate          = errors.New("duplicate value")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("invalid token")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactive           = errors.New("account is inactive")
)

// ValidationError names the first offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("This %s already exists", e.Field)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// storeError turns a write failure into the caller-facing error. A unique
// index hit means a concurrent writer won the race past the pre-write check.
func storeError(err error, field, action string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateError{Field: field}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
