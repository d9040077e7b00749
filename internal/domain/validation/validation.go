// internal/domain/validation/validation.go

// Package validation defines the error taxonomy shared by the record
// pipelines. Every rejection a pipeline can produce is one of a closed set of
// reasons with a distinct user-facing message, so handlers never have to fall
// back to a generic failure for a validation outcome.
package validation

import (
	"errors"
	"fmt"
)

// Reason identifies why a record was rejected.
type Reason string

const (
	MissingField         Reason = "missing_field"
	DuplicateEmail       Reason = "duplicate_email"
	DuplicateAdminID     Reason = "duplicate_admin_id"
	DuplicateSlug        Reason = "duplicate_slug"
	DuplicateCategory    Reason = "duplicate_category"
	EmptySlug            Reason = "empty_slug"
	PasswordMismatch     Reason = "password_mismatch"
	SamePassword         Reason = "same_password"
	IncorrectOldPassword Reason = "incorrect_old_password"
	IncorrectPassword    Reason = "incorrect_password"
)

// Error is a validation rejection. Field is set for MissingField and empty
// otherwise.
type Error struct {
	Reason Reason
	Field  string
}

func (e *Error) Error() string {
	switch e.Reason {
	case MissingField:
		return fmt.Sprintf("%s is required", e.Field)
	case DuplicateEmail:
		return "an admin with this email already exists"
	case DuplicateAdminID:
		return "this admin ID is already in use"
	case DuplicateSlug:
		return "a post with this slug already exists; choose a distinguishing title"
	case DuplicateCategory:
		return "a category with this name already exists"
	case EmptySlug:
		return "the title does not produce a usable slug"
	case PasswordMismatch:
		return "new password and confirmation do not match"
	case SamePassword:
		return "new password must be different from the old password"
	case IncorrectOldPassword:
		return "old password is incorrect"
	case IncorrectPassword:
		return "incorrect password"
	}
	return string(e.Reason)
}

// Is makes errors.Is match two validation errors by reason alone, so callers
// can test against a bare &Error{Reason: ...} sentinel.
func (e *Error) Is(target error) bool {
	var ve *Error
	if !errors.As(target, &ve) {
		return false
	}
	return e.Reason == ve.Reason
}

// Missing builds a MissingField rejection for the named form field.
func Missing(field string) *Error {
	return &Error{Reason: MissingField, Field: field}
}

// Reject builds a rejection for the given reason.
func Reject(reason Reason) *Error {
	return &Error{Reason: reason}
}

// Cause returns the reason of a validation error, or "" if err is not one.
func Cause(err error) Reason {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// ErrNotFound is returned when the addressed record does not exist.
var ErrNotFound = errors.New("record not found")

// StorageError wraps an unexpected persistence failure. Late-discovered
// uniqueness collisions are not storage errors; they surface as the same
// Duplicate* rejection the pre-check would have produced.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError for the named operation.
func Storage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
