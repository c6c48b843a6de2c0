package database

import (
	"database/sql"
	"time"

	"github.com/ledgertrack-app/ledgertrack/internal/models"
)

// FindTribeForUser returns the tribe the user belongs to, or ErrNotFound
func (d *Database) FindTribeForUser(userID string) (*models.Tribe, error) {
	query := d.rebind(`
		SELECT t.id, t.name, t.created_at
		FROM tribes t
		JOIN tribe_members m ON m.tribe_id = t.id
		WHERE m.user_id = ?
	`)
	tribe := &models.Tribe{}
	err := d.conn.QueryRow(query, userID).Scan(&tribe.ID, &tribe.Name, &tribe.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tribe, nil
}

// ListTribeMembers returns the users in a tribe
func (d *Database) ListTribeMembers(tribeID string) ([]*models.User, error) {
	query := d.rebind(`
		SELECT u.id, u.email, u.username, u.password_hash, u.created_at, u.updated_at
		FROM tribe_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.tribe_id = ?
		ORDER BY u.created_at, u.id
	`)
	rows, err := d.conn.Query(query, tribeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		var username sql.NullString
		if err := rows.Scan(&user.ID, &user.Email, &username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		if username.Valid {
			user.Username = &username.String
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// FindKudos returns an existing kudos row from one user to another
func (d *Database) FindKudos(toUser, fromUser string) (*models.Kudos, error) {
	query := d.rebind(`
		SELECT id, to_user, from_user, created_at
		FROM kudos WHERE to_user = ? AND from_user = ?
	`)
	kudos := &models.Kudos{}
	err := d.conn.QueryRow(query, toUser, fromUser).Scan(&kudos.ID, &kudos.ToUser, &kudos.FromUser, &kudos.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return kudos, nil
}

// InsertKudos stores a new kudos row
func (d *Database) InsertKudos(kudos *models.Kudos) error {
	if kudos.CreatedAt.IsZero() {
		kudos.CreatedAt = time.Now()
	}
	query := d.rebind(`
		INSERT INTO kudos (id, to_user, from_user, created_at)
		VALUES (?, ?, ?, ?)
	`)
	_, err := d.conn.Exec(query, kudos.ID, kudos.ToUser, kudos.FromUser, kudos.CreatedAt)
	return err
}

// DeleteKudos removes a kudos row by ID
func (d *Database) DeleteKudos(id string) error {
	query := d.rebind(`DELETE FROM kudos WHERE id = ?`)
	_, err := d.conn.Exec(query, id)
	return err
}
