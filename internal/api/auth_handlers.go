package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ledgertrack-app/ledgertrack/internal/auth"
	"github.com/ledgertrack-app/ledgertrack/internal/models"
)

type credentials struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Username *string `json:"username,omitempty"`
}

type userPayload struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Username *string `json:"username,omitempty"`
}

func toUserPayload(user *models.User) userPayload {
	return userPayload{ID: user.ID, Email: user.Email, Username: user.Username}
}

func (api *Api) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	// Validation runs before any password hashing happens.
	if !auth.ValidateEmail(creds.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if !auth.ValidatePassword(creds.Password) {
		writeError(w, http.StatusBadRequest, "Password too short")
		return
	}
	if creds.Username != nil && !auth.ValidateUsername(*creds.Username) {
		writeError(w, http.StatusBadRequest, "Invalid username")
		return
	}

	user, token, err := api.auth.Register(creds.Email, creds.Password, creds.Username)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "Email already in use")
			return
		}
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  toUserPayload(user),
	})
}

func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	user, token, err := api.auth.Login(creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  toUserPayload(user),
	})
}

func (api *Api) MeHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := api.auth.CurrentUser(identity)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserPayload(user)})
}
