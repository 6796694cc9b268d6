package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is deliberately above the library default; password hashing is
// supposed to be expensive.
const bcryptCost = 12

// HashPassword hashes a plaintext password using bcrypt. The salt is random,
// so hashing the same plaintext twice yields different digests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash. A
// malformed hash is reported as a mismatch, never as an error.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
