package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ledgertrack-app/ledgertrack/internal/database"
	"github.com/ledgertrack-app/ledgertrack/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
)

// Service handles registration, login and session bookkeeping. The storage
// handle and token manager are injected at startup.
type Service struct {
	db     *database.Database
	tokens *TokenManager
}

// NewService creates a new auth Service
func NewService(db *database.Database, tokens *TokenManager) *Service {
	return &Service{db: db, tokens: tokens}
}

// Register creates a user and issues their first session. Emails are stored
// lowercased; a duplicate reports ErrEmailTaken.
func (s *Service) Register(email, password string, username *string) (*models.User, string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.db.InsertUser(user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.issueSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a new session. An unknown email and a
// wrong password are indistinguishable to the caller; no session row is
// written on failure.
func (s *Service) Login(email, password string) (*models.User, string, error) {
	user, err := s.db.FindUserByEmail(strings.ToLower(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// issueSession signs a token and appends the matching ledger row. The ledger
// is audit bookkeeping only; verification never reads it back.
func (s *Service) issueSession(userID string) (string, error) {
	token, jti, expiresAt, err := s.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		JWTID:     jti,
		ExpiresAt: expiresAt,
	}
	if err := s.db.InsertSession(session); err != nil {
		return "", fmt.Errorf("failed to record session: %w", err)
	}
	return token, nil
}

// CurrentUser loads the user behind a verified identity
func (s *Service) CurrentUser(identity *Identity) (*models.User, error) {
	user, err := s.db.FindUserByID(identity.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
