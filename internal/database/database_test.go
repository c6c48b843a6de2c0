package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/ledgertrack-app/ledgertrack/internal/config"
	"github.com/ledgertrack-app/ledgertrack/internal/models"
)

// DatabaseTestSuite exercises the storage layer against a throwaway SQLite
// file per test.
type DatabaseTestSuite struct {
	suite.Suite
	db *Database
}

func (s *DatabaseTestSuite) SetupTest() {
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(s.T().TempDir(), "test_ledgertrack.db")
	cfg.Database.MaxRetries = 1

	db, err := Open(cfg)
	assert.NoError(s.T(), err, "Database initialization should succeed")
	s.db = db
}

func (s *DatabaseTestSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *DatabaseTestSuite) newUser(email string) *models.User {
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
	s.Require().NoError(s.db.InsertUser(user))
	return user
}

func (s *DatabaseTestSuite) newHabit(userID, name string) *models.Habit {
	habit := &models.Habit{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Icon:   "kiwi",
	}
	s.Require().NoError(s.db.InsertHabit(habit))
	return habit
}

func (s *DatabaseTestSuite) TestInsertUser_DuplicateEmail() {
	s.newUser("demo@ledgertrack.app")

	dup := &models.User{
		ID:           uuid.NewString(),
		Email:        "demo@ledgertrack.app",
		PasswordHash: "hash",
	}
	err := s.db.InsertUser(dup)
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *DatabaseTestSuite) TestFindUser() {
	user := s.newUser("demo@ledgertrack.app")

	byEmail, err := s.db.FindUserByEmail("demo@ledgertrack.app")
	s.NoError(err)
	s.Equal(user.ID, byEmail.ID)

	byID, err := s.db.FindUserByID(user.ID)
	s.NoError(err)
	s.Equal("demo@ledgertrack.app", byID.Email)

	_, err = s.db.FindUserByEmail("nobody@ledgertrack.app")
	s.ErrorIs(err, ErrNotFound)
	_, err = s.db.FindUserByID(uuid.NewString())
	s.ErrorIs(err, ErrNotFound)
}

func (s *DatabaseTestSuite) TestListHabitsByUser_CreationOrder() {
	user := s.newUser("demo@ledgertrack.app")

	first := &models.Habit{ID: uuid.NewString(), UserID: user.ID, Name: "first", CreatedAt: time.Now().Add(-2 * time.Hour)}
	second := &models.Habit{ID: uuid.NewString(), UserID: user.ID, Name: "second", CreatedAt: time.Now().Add(-1 * time.Hour)}
	// Insert out of order; the query must sort by creation time.
	s.Require().NoError(s.db.InsertHabit(second))
	s.Require().NoError(s.db.InsertHabit(first))

	habits, err := s.db.ListHabitsByUser(user.ID)
	s.NoError(err)
	s.Require().Len(habits, 2)
	s.Equal("first", habits[0].Name)
	s.Equal("second", habits[1].Name)
}

func (s *DatabaseTestSuite) TestUpsertCompletion_Idempotent() {
	user := s.newUser("demo@ledgertrack.app")
	habit := s.newHabit(user.ID, "hydrate")

	s.NoError(s.db.UpsertCompletion(uuid.NewString(), habit.ID, "2026-08-29"))
	s.NoError(s.db.UpsertCompletion(uuid.NewString(), habit.ID, "2026-08-29"))

	var count int
	err := s.db.Conn().QueryRow(
		`SELECT COUNT(*) FROM habit_entries WHERE habit_id = ? AND date = ?`,
		habit.ID, "2026-08-29",
	).Scan(&count)
	s.NoError(err)
	s.Equal(1, count, "second upsert must not add a row")

	completed, err := s.db.IsCompletedOn(habit.ID, "2026-08-29")
	s.NoError(err)
	s.True(completed)

	completed, err = s.db.IsCompletedOn(habit.ID, "2026-08-28")
	s.NoError(err)
	s.False(completed)
}

func (s *DatabaseTestSuite) TestCompletedDateSets() {
	user := s.newUser("demo@ledgertrack.app")
	run := s.newHabit(user.ID, "run")
	read := s.newHabit(user.ID, "read")

	s.Require().NoError(s.db.UpsertCompletion(uuid.NewString(), run.ID, "2026-08-28"))
	s.Require().NoError(s.db.UpsertCompletion(uuid.NewString(), run.ID, "2026-08-29"))
	s.Require().NoError(s.db.UpsertCompletion(uuid.NewString(), read.ID, "2026-08-29"))

	forRun, err := s.db.CompletedDatesForHabit(run.ID)
	s.NoError(err)
	s.Len(forRun, 2)

	forRead, err := s.db.CompletedDatesForHabit(read.ID)
	s.NoError(err)
	s.Len(forRead, 1)

	// The user set is the union with duplicates collapsed.
	forUser, err := s.db.CompletedDatesForUser(user.ID)
	s.NoError(err)
	s.Len(forUser, 2)
	_, ok := forUser["2026-08-29"]
	s.True(ok)
}

func (s *DatabaseTestSuite) TestSessionLedger() {
	user := s.newUser("demo@ledgertrack.app")

	live := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		JWTID:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	expired := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		JWTID:     uuid.NewString(),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	s.Require().NoError(s.db.InsertSession(live))
	s.Require().NoError(s.db.InsertSession(expired))

	count, err := s.db.CountSessionsForUser(user.ID)
	s.NoError(err)
	s.Equal(2, count)

	removed, err := s.db.DeleteExpiredSessions()
	s.NoError(err)
	s.Equal(int64(1), removed)

	count, err = s.db.CountSessionsForUser(user.ID)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *DatabaseTestSuite) TestKudos() {
	alice := s.newUser("alice@ledgertrack.app")
	bob := s.newUser("bob@ledgertrack.app")

	_, err := s.db.FindKudos(bob.ID, alice.ID)
	s.ErrorIs(err, ErrNotFound)

	kudos := &models.Kudos{ID: uuid.NewString(), ToUser: bob.ID, FromUser: alice.ID}
	s.Require().NoError(s.db.InsertKudos(kudos))

	found, err := s.db.FindKudos(bob.ID, alice.ID)
	s.NoError(err)
	s.Equal(kudos.ID, found.ID)

	s.NoError(s.db.DeleteKudos(kudos.ID))
	_, err = s.db.FindKudos(bob.ID, alice.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *DatabaseTestSuite) TestAllCompletionEntries() {
	user := s.newUser("demo@ledgertrack.app")
	habit := s.newHabit(user.ID, "hydrate")
	s.Require().NoError(s.db.UpsertCompletion(uuid.NewString(), habit.ID, "2026-08-28"))
	s.Require().NoError(s.db.UpsertCompletion(uuid.NewString(), habit.ID, "2026-08-29"))

	entries, err := s.db.AllCompletionEntries()
	s.NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("2026-08-28", entries[0].Date)
	s.True(entries[0].Completed)
}

func TestDatabaseTestSuite(t *testing.T) {
	suite.Run(t, new(DatabaseTestSuite))
}

func TestRebind(t *testing.T) {
	sqlite := &Database{dbType: "sqlite"}
	postgres := &Database{dbType: "postgres"}

	q := "SELECT 1 FROM users WHERE id = ? AND email = ?"
	assert.Equal(t, q, sqlite.rebind(q))
	assert.Equal(t, "SELECT 1 FROM users WHERE id = $1 AND email = $2", postgres.rebind(q))
}
