package database

import (
	"time"

	"github.com/ledgertrack-app/ledgertrack/internal/models"
)

// InsertSession appends one row to the session ledger. Every issued token
// gets its own row; rows are never deduplicated.
func (d *Database) InsertSession(session *models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	query := d.rebind(`
		INSERT INTO sessions (id, user_id, jwt_id, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := d.conn.Exec(query, session.ID, session.UserID, session.JWTID, session.CreatedAt, session.ExpiresAt)
	return err
}

// CountSessionsForUser returns the number of ledger rows for a user
func (d *Database) CountSessionsForUser(userID string) (int, error) {
	query := d.rebind(`SELECT COUNT(*) FROM sessions WHERE user_id = ?`)
	var count int
	err := d.conn.QueryRow(query, userID).Scan(&count)
	return count, err
}

// DeleteExpiredSessions removes ledger rows past their expiry. Expiry is the
// only way a session row is ever destroyed.
func (d *Database) DeleteExpiredSessions() (int64, error) {
	query := d.rebind(`DELETE FROM sessions WHERE expires_at < ?`)
	result, err := d.conn.Exec(query, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
