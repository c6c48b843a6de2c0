package auth

import (
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email) && len(email) < 255
}

// ValidatePassword checks the minimum password length. Runs before any hash
// is computed.
func ValidatePassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72
}

// ValidateUsername checks the optional display name
func ValidateUsername(username string) bool {
	return len(username) >= 2 && len(username) <= 50
}
