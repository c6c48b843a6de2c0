package models

import (
	"time"
)

// User represents a user account in the database
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     *string   `json:"username,omitempty" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never sent to the client
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the username if set, falling back to the email.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return u.Email
}

// Habit represents a tracked habit belonging to a user
type Habit struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CompletionEntry is one row asserting a habit was completed on a calendar
// day. Dates are plain YYYY-MM-DD strings taken from the service wall clock;
// at most one row exists per (habit, date).
type CompletionEntry struct {
	ID        string `json:"id" db:"id"`
	HabitID   string `json:"habit_id" db:"habit_id"`
	Date      string `json:"date" db:"date"`
	Completed bool   `json:"completed" db:"completed"`
}

// Session is one row of the append-only session ledger. A row is written for
// every issued token; token validity is cryptographic and does not depend on
// the row's presence.
type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	JWTID     string    `json:"jwt_id" db:"jwt_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// Kudos records one user cheering another inside a tribe
type Kudos struct {
	ID        string    `json:"id" db:"id"`
	ToUser    string    `json:"to_user" db:"to_user"`
	FromUser  string    `json:"from_user" db:"from_user"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Tribe is a small accountability group of users
type Tribe struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
