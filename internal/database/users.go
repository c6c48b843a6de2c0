package database

import (
	"database/sql"
	"time"

	"github.com/ledgertrack-app/ledgertrack/internal/models"
)

// InsertUser stores a new user. The email must already be lowercased by the
// caller; uniqueness is enforced by the store and reported as ErrEmailTaken.
func (d *Database) InsertUser(user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := d.rebind(`
		INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := d.conn.Exec(query, user.ID, user.Email, user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

// FindUserByEmail retrieves a user by their (lowercased) email
func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	query := d.rebind(`
		SELECT id, email, username, password_hash, created_at, updated_at
		FROM users WHERE email = ?
	`)
	return d.scanUser(d.conn.QueryRow(query, email))
}

// FindUserByID retrieves a user by their ID
func (d *Database) FindUserByID(id string) (*models.User, error) {
	query := d.rebind(`
		SELECT id, email, username, password_hash, created_at, updated_at
		FROM users WHERE id = ?
	`)
	return d.scanUser(d.conn.QueryRow(query, id))
}

func (d *Database) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var username sql.NullString
	err := row.Scan(&user.ID, &user.Email, &username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if username.Valid {
		user.Username = &username.String
	}
	return &user, nil
}
