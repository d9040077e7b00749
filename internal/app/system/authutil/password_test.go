package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid short", "abc123", nil},
		{"valid medium", "mySecurePassword", nil},
		{"valid at max", strings.Repeat("a", 72), nil},
		{"with spaces", "my secret password", nil},
		{"too short", "abcde", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"too long", strings.Repeat("a", 73), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePassword(tt.password); err != tt.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	password := "correct-horse-battery"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" {
		t.Error("HashPassword() returned empty digest")
	}
	if hash == password {
		t.Error("HashPassword() returned the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("digest does not appear to be bcrypt: %s", hash)
	}

	// Salting: same password, different digests.
	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() second call error = %v", err)
	}
	if hash == hash2 {
		t.Error("two hashes of the same password should differ (salt)")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("rightpassword")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct", "rightpassword", hash, true},
		{"wrong", "wrongpassword", hash, false},
		{"empty password", "", hash, false},
		{"empty hash", "rightpassword", "", false},
		{"garbage hash", "rightpassword", "not-a-hash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("CheckPassword(%q, hash) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	passwords := []string{
		"simple123",
		"Complex!P@ssw0rd#123",
		"with spaces in it",
		strings.Repeat("a", 50),
	}

	for _, password := range passwords {
		hash, err := HashPassword(password)
		if err != nil {
			t.Fatalf("HashPassword(%q) error = %v", password, err)
		}
		if !CheckPassword(password, hash) {
			t.Errorf("CheckPassword failed to verify %q", password)
		}
		if CheckPassword(password+"x", hash) {
			t.Errorf("CheckPassword verified wrong password for %q", password)
		}
	}
}
