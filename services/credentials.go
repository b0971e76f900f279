package services

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor used for new hashes
var passwordCost = bcrypt.DefaultCost

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches the stored hash
func VerifyPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
