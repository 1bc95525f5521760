package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if hash == "s3cret-pass" {
		t.Fatalf("hash must not equal the plaintext")
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != PasswordCost {
		t.Fatalf("cost: got %d err=%v want %d", cost, err, PasswordCost)
	}

	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")

	if a == b {
		t.Fatalf("two hashes of the same password should differ")
	}
}

func TestCheckPassword_CorruptHash(t *testing.T) {
	err := CheckPassword("not-a-bcrypt-hash", "x")
	if err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected a non-mismatch error for a corrupt hash, got %v", err)
	}
}

func TestCheckPassword_OverlongIsMismatch(t *testing.T) {
	hash, err := HashPassword("short")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	err = CheckPassword(hash, strings.Repeat("é", 40))
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}
