package habits

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ledgertrack-app/ledgertrack/internal/database"
	"github.com/ledgertrack-app/ledgertrack/internal/models"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
)

// Every empty account gets this habit on its first dashboard read.
const (
	DefaultMissionName = "Manger 1 fruit 🥝"
	DefaultMissionIcon = "kiwi"
)

// Service owns the habit directory and the completion ledger. All completion
// state lives in storage; nothing is cached between calls.
type Service struct {
	db *database.Database
}

// NewService creates a new habits Service
func NewService(db *database.Database) *Service {
	return &Service{db: db}
}

// ListHabits returns the user's habits in creation order
func (s *Service) ListHabits(userID string) ([]*models.Habit, error) {
	return s.db.ListHabitsByUser(userID)
}

// GetHabit is the ownership gate in front of every habit mutation. A habit
// owned by someone else reports ErrHabitNotFound, same as one that does not
// exist.
func (s *Service) GetHabit(habitID, ownerID string) (*models.Habit, error) {
	habit, err := s.db.FindHabitByID(habitID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}
	if habit.UserID != ownerID {
		return nil, ErrHabitNotFound
	}
	return habit, nil
}

// CreateHabit adds a habit for the user
func (s *Service) CreateHabit(userID, name, icon string) (*models.Habit, error) {
	habit := &models.Habit{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Icon:   icon,
	}
	if err := s.db.InsertHabit(habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// TodaysMission returns the user's earliest-created habit. An empty account
// is bootstrapped with the default habit on the spot; the returned flag tells
// callers whether this read performed that write.
func (s *Service) TodaysMission(userID string) (*models.Habit, bool, error) {
	habitList, err := s.db.ListHabitsByUser(userID)
	if err != nil {
		return nil, false, err
	}
	if len(habitList) > 0 {
		return habitList[0], false, nil
	}

	habit, err := s.CreateHabit(userID, DefaultMissionName, DefaultMissionIcon)
	if err != nil {
		return nil, false, err
	}
	return habit, true, nil
}

// MarkComplete records the habit as completed on the given day and returns
// the habit's fresh streak. The underlying upsert makes the call idempotent:
// completing an already-completed day changes nothing and returns the same
// streak.
func (s *Service) MarkComplete(habitID, ownerID, day string) (int, error) {
	if _, err := s.GetHabit(habitID, ownerID); err != nil {
		return 0, err
	}
	if err := s.db.UpsertCompletion(uuid.NewString(), habitID, day); err != nil {
		return 0, err
	}
	return s.HabitStreak(habitID, day)
}

// IsCompletedOn reports whether the habit was completed on the day
func (s *Service) IsCompletedOn(habitID, day string) (bool, error) {
	return s.db.IsCompletedOn(habitID, day)
}

// HabitStreak recomputes the habit's consecutive-day streak ending at today
func (s *Service) HabitStreak(habitID, today string) (int, error) {
	days, err := s.db.CompletedDatesForHabit(habitID)
	if err != nil {
		return 0, err
	}
	return CurrentStreak(DateSet(days), today), nil
}

// UserStreak recomputes the user's streak over the union of all their habits
func (s *Service) UserStreak(userID, today string) (int, error) {
	days, err := s.db.CompletedDatesForUser(userID)
	if err != nil {
		return 0, err
	}
	return CurrentStreak(DateSet(days), today), nil
}

// Summary is one habit decorated for the habits list
type Summary struct {
	Habit          *models.Habit
	Streak         int
	CompletedToday bool
	IsTodayMission bool
}

// Summaries returns the user's habits with their streaks and today's status.
// The first habit carries the mission flag.
func (s *Service) Summaries(userID, today string) ([]*Summary, error) {
	habitList, err := s.db.ListHabitsByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*Summary, 0, len(habitList))
	for i, habit := range habitList {
		streak, err := s.HabitStreak(habit.ID, today)
		if err != nil {
			return nil, err
		}
		completedToday, err := s.db.IsCompletedOn(habit.ID, today)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &Summary{
			Habit:          habit,
			Streak:         streak,
			CompletedToday: completedToday,
			IsTodayMission: i == 0,
		})
	}
	return summaries, nil
}
