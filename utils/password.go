package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Default cost for bcrypt password hashing
const bcryptCost = 10

// HashPassword returns a bcrypt hash with an embedded random salt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword reports whether password matches hash. A mismatch is not an
// error; only a corrupt hash is.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
