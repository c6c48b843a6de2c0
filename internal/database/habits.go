package database

import (
	"database/sql"
	"time"

	"github.com/ledgertrack-app/ledgertrack/internal/models"
)

// InsertHabit stores a new habit for a user
func (d *Database) InsertHabit(habit *models.Habit) error {
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}
	query := d.rebind(`
		INSERT INTO habits (id, user_id, name, icon, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := d.conn.Exec(query, habit.ID, habit.UserID, habit.Name, habit.Icon, habit.CreatedAt)
	return err
}

// ListHabitsByUser returns a user's habits in creation order
func (d *Database) ListHabitsByUser(userID string) ([]*models.Habit, error) {
	query := d.rebind(`
		SELECT id, user_id, name, icon, created_at
		FROM habits WHERE user_id = ? ORDER BY created_at, id
	`)
	rows, err := d.conn.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		habit := &models.Habit{}
		if err := rows.Scan(&habit.ID, &habit.UserID, &habit.Name, &habit.Icon, &habit.CreatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

// FindHabitByID retrieves a habit by its ID
func (d *Database) FindHabitByID(id string) (*models.Habit, error) {
	query := d.rebind(`
		SELECT id, user_id, name, icon, created_at
		FROM habits WHERE id = ?
	`)
	habit := &models.Habit{}
	err := d.conn.QueryRow(query, id).Scan(&habit.ID, &habit.UserID, &habit.Name, &habit.Icon, &habit.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// UpsertCompletion marks a habit completed on the given YYYY-MM-DD day. The
// write is a single statement so concurrent calls for the same (habit, day)
// race to the same row; re-marking an already-completed day is a no-op.
func (d *Database) UpsertCompletion(entryID, habitID, date string) error {
	query := d.rebind(`
		INSERT INTO habit_entries (id, habit_id, date, completed)
		VALUES (?, ?, ?, TRUE)
		ON CONFLICT(habit_id, date) DO UPDATE SET completed = TRUE
	`)
	_, err := d.conn.Exec(query, entryID, habitID, date)
	return err
}

// IsCompletedOn reports whether the habit has a completed entry for the day
func (d *Database) IsCompletedOn(habitID, date string) (bool, error) {
	query := d.rebind(`SELECT completed FROM habit_entries WHERE habit_id = ? AND date = ?`)
	var completed bool
	err := d.conn.QueryRow(query, habitID, date).Scan(&completed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return completed, nil
}

// CompletedDatesForHabit returns the set of days the habit was completed
func (d *Database) CompletedDatesForHabit(habitID string) (map[string]struct{}, error) {
	query := d.rebind(`
		SELECT date FROM habit_entries WHERE habit_id = ? AND completed = TRUE
	`)
	return d.queryDateSet(query, habitID)
}

// CompletedDatesForUser returns the set of days on which any of the user's
// habits was completed
func (d *Database) CompletedDatesForUser(userID string) (map[string]struct{}, error) {
	query := d.rebind(`
		SELECT DISTINCT he.date
		FROM habit_entries he
		JOIN habits h ON h.id = he.habit_id
		WHERE h.user_id = ? AND he.completed = TRUE
	`)
	return d.queryDateSet(query, userID)
}

// AllCompletionEntries dumps the completion ledger, oldest day first. Used by
// the backup snapshotter.
func (d *Database) AllCompletionEntries() ([]*models.CompletionEntry, error) {
	rows, err := d.conn.Query(`
		SELECT id, habit_id, date, completed FROM habit_entries ORDER BY date, habit_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.CompletionEntry
	for rows.Next() {
		entry := &models.CompletionEntry{}
		if err := rows.Scan(&entry.ID, &entry.HabitID, &entry.Date, &entry.Completed); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (d *Database) queryDateSet(query string, arg string) (map[string]struct{}, error) {
	rows, err := d.conn.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make(map[string]struct{})
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates[date] = struct{}{}
	}
	return dates, rows.Err()
}
