package tribe

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/ledgertrack-app/ledgertrack/internal/database"
	"github.com/ledgertrack-app/ledgertrack/internal/habits"
	"github.com/ledgertrack-app/ledgertrack/internal/models"
)

var (
	ErrInvalidTarget = errors.New("invalid kudos target")
)

// Member is one tribe member as shown in the feed
type Member struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	Streak     int    `json:"streak"`
	LastAction string `json:"lastAction"`
	Kudos      int    `json:"kudos"`
}

// Rank is one leaderboard row
type Rank struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Streak int    `json:"streak"`
}

// Feed is the tribe screen payload
type Feed struct {
	Tribe       *models.Tribe `json:"tribe"`
	Members     []Member      `json:"members"`
	Leaderboard []Rank        `json:"leaderboard"`
}

// Service assembles the tribe feed. Member streaks reuse the per-user shape
// of the streak walk, which is the whole reason this surface exists.
type Service struct {
	db     *database.Database
	habits *habits.Service
}

// NewService creates a new tribe Service
func NewService(db *database.Database, habitService *habits.Service) *Service {
	return &Service{db: db, habits: habitService}
}

// FeedFor returns the tribe feed for a user. Accounts without a tribe get the
// demo feed so the screen is never empty.
func (s *Service) FeedFor(userID, today string) (*Feed, error) {
	t, err := s.db.FindTribeForUser(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return demoFeed(), nil
		}
		return nil, err
	}

	users, err := s.db.ListTribeMembers(t.ID)
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(users))
	for i, u := range users {
		streak, err := s.habits.UserStreak(u.ID, today)
		if err != nil {
			return nil, err
		}
		members = append(members, Member{
			ID:     u.ID,
			Name:   u.DisplayName(),
			Avatar: fmt.Sprintf("https://i.pravatar.cc/100?img=%d", (i%10)+1),
			Streak: streak,
		})
	}
	return &Feed{Tribe: t, Members: members, Leaderboard: leaderboard(members)}, nil
}

// ToggleKudos adds a kudos from one user to another, or withdraws it if one
// already exists. Returns whether the kudos is now present.
func (s *Service) ToggleKudos(fromUser, toUser string) (bool, error) {
	if toUser == "" || toUser == fromUser {
		return false, ErrInvalidTarget
	}

	existing, err := s.db.FindKudos(toUser, fromUser)
	if err == nil {
		if err := s.db.DeleteKudos(existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return false, err
	}

	kudos := &models.Kudos{
		ID:       uuid.NewString(),
		ToUser:   toUser,
		FromUser: fromUser,
	}
	if err := s.db.InsertKudos(kudos); err != nil {
		return false, err
	}
	return true, nil
}

func leaderboard(members []Member) []Rank {
	sorted := make([]Member, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Streak > sorted[j].Streak
	})
	ranks := make([]Rank, len(sorted))
	for i, m := range sorted {
		ranks[i] = Rank{Rank: i + 1, Name: m.Name, Streak: m.Streak}
	}
	return ranks
}

// demoFeed is shown to users who have not joined a tribe yet
func demoFeed() *Feed {
	members := []Member{
		{ID: "u1", Name: "Sophie", Avatar: "https://i.pravatar.cc/100?img=1", Streak: 12, LastAction: "A bu 500ml", Kudos: 5},
		{ID: "u2", Name: "Ken", Avatar: "https://i.pravatar.cc/100?img=2", Streak: 9, LastAction: "A marché 5k", Kudos: 3},
		{ID: "u3", Name: "Lina", Avatar: "https://i.pravatar.cc/100?img=3", Streak: 20, LastAction: "A mangé un fruit", Kudos: 11},
		{ID: "u4", Name: "Ari", Avatar: "https://i.pravatar.cc/100?img=4", Streak: 7, LastAction: "A médité 10m", Kudos: 2},
	}
	return &Feed{
		Tribe:       &models.Tribe{ID: "demo", Name: "Eau"},
		Members:     members,
		Leaderboard: leaderboard(members),
	}
}
