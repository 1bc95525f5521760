package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is fixed so hashes stay comparable across deploys.
const PasswordCost = bcrypt.DefaultCost

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword hashes a plain text password with a salted bcrypt hash.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
// A wrong password yields ErrPasswordMismatch; a corrupt hash yields the bcrypt error.
func CheckPassword(hash, plain string) error {
	// nothing that long could have been hashed
	if len(plain) > MaxPasswordBytes {
		return ErrPasswordMismatch
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}

	return err
}
