package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgertrack-app/ledgertrack/internal/auth"
	"github.com/ledgertrack-app/ledgertrack/internal/habits"
	"github.com/ledgertrack-app/ledgertrack/internal/tribe"
)

type missionPayload struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	CompletedToday bool   `json:"completedToday"`
}

type habitPayload struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	Streak         int    `json:"streak"`
	CompletedToday bool   `json:"completedToday"`
	IsTodayMission bool   `json:"isTodayMission"`
}

// HomeHandler assembles the dashboard: the mission (created on the spot for
// empty accounts) plus the per-user streak.
func (api *Api) HomeHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	today := habits.Today()

	mission, _, err := api.habits.TodaysMission(identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load mission")
		return
	}

	completedToday, err := api.habits.IsCompletedOn(mission.ID, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load mission")
		return
	}

	streak, err := api.habits.UserStreak(identity.UserID, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute streak")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"streak": streak,
		"mission": missionPayload{
			ID:             mission.ID,
			Name:           mission.Name,
			Icon:           mission.Icon,
			CompletedToday: completedToday,
		},
	})
}

func (api *Api) ListHabitsHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	summaries, err := api.habits.Summaries(identity.UserID, habits.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list habits")
		return
	}

	payload := make([]habitPayload, 0, len(summaries))
	for _, s := range summaries {
		payload = append(payload, habitPayload{
			ID:             s.Habit.ID,
			Name:           s.Habit.Name,
			Icon:           s.Habit.Icon,
			Streak:         s.Streak,
			CompletedToday: s.CompletedToday,
			IsTodayMission: s.IsTodayMission,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"habits": payload})
}

func (api *Api) CompleteHabitHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	habitID := chi.URLParam(r, "habitID")

	streak, err := api.habits.MarkComplete(habitID, identity.UserID, habits.Today())
	if err != nil {
		if errors.Is(err, habits.ErrHabitNotFound) {
			writeError(w, http.StatusNotFound, "Habit not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record completion")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "streak": streak})
}

func (api *Api) TribeHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	feed, err := api.tribe.FeedFor(identity.UserID, habits.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load tribe")
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (api *Api) KudosHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req struct {
		ToUser string `json:"to_user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	liked, err := api.tribe.ToggleKudos(identity.UserID, req.ToUser)
	if err != nil {
		if errors.Is(err, tribe.ErrInvalidTarget) {
			writeError(w, http.StatusBadRequest, "Invalid target")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to toggle kudos")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}
