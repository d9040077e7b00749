package validation

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same reason", Reject(DuplicateSlug), Reject(DuplicateSlug), true},
		{"different reason", Reject(DuplicateSlug), Reject(DuplicateEmail), false},
		{"missing field matches by reason", Missing("email"), Missing("title"), true},
		{"wrapped", fmt.Errorf("create: %w", Reject(SamePassword)), Reject(SamePassword), true},
		{"not a validation error", errors.New("boom"), Reject(SamePassword), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestCause(t *testing.T) {
	if got := Cause(Missing("gender")); got != MissingField {
		t.Errorf("Cause() = %q, want %q", got, MissingField)
	}
	if got := Cause(fmt.Errorf("wrapped: %w", Reject(EmptySlug))); got != EmptySlug {
		t.Errorf("Cause(wrapped) = %q, want %q", got, EmptySlug)
	}
	if got := Cause(errors.New("other")); got != "" {
		t.Errorf("Cause(non-validation) = %q, want empty", got)
	}
}

func TestMessagesAreDistinct(t *testing.T) {
	reasons := []Reason{
		DuplicateEmail, DuplicateAdminID, DuplicateSlug, EmptySlug,
		PasswordMismatch, SamePassword, IncorrectOldPassword, IncorrectPassword,
	}
	seen := map[string]Reason{}
	for _, reason := range reasons {
		msg := Reject(reason).Error()
		if msg == "" {
			t.Errorf("reason %q has empty message", reason)
		}
		if prev, dup := seen[msg]; dup {
			t.Errorf("reasons %q and %q share message %q", prev, reason, msg)
		}
		seen[msg] = reason
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("insert admin", cause)
	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatal("errors.As should find *StorageError")
	}
	if se.Op != "insert admin" {
		t.Errorf("Op = %q, want %q", se.Op, "insert admin")
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(Missing("title")) {
		t.Error("Missing should be a validation error")
	}
	if IsValidation(ErrNotFound) {
		t.Error("ErrNotFound is not a validation error")
	}
	if IsValidation(Storage("op", errors.New("x"))) {
		t.Error("StorageError is not a validation error")
	}
}
