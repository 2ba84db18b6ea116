package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("password123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !CheckPassword(hash, "password123") {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword(hash, "password124") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestCheckPassword_BadHash(t *testing.T) {
	t.Parallel()

	if CheckPassword("not-a-bcrypt-hash", "whatever") {
		t.Fatalf("expected malformed hash to fail verification")
	}
}
