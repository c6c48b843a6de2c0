package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the mobile clients were provisioned
// against; changing it invalidates nothing but slows new registrations.
const bcryptCost = 10

// HashPassword returns a salted bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash. A
// mismatch or a malformed stored hash both return false; this never errors so
// callers can collapse every failure into invalid credentials.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
