package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the result of verifying a bearer token
type Identity struct {
	UserID string
	JWTID  string
}

// TokenManager signs and verifies bearer tokens. Verification is a pure
// function of the token, the secret and the clock; it never touches storage,
// so a session ledger row's absence does not invalidate a live token.
type TokenManager struct {
	secretKey []byte
	duration  time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secretKey string, duration time.Duration) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secretKey),
		duration:  duration,
	}
}

// Issue signs a token for the user with a fresh jti. Each call produces an
// independent token; two concurrent logins yield two distinct sessions.
func (tm *TokenManager) Issue(userID string) (token string, jti string, expiresAt time.Time, err error) {
	jti = uuid.NewString()
	now := time.Now()
	expiresAt = now.Add(tm.duration)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        jti,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secretKey)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, jti, expiresAt, nil
}

// Verify validates a token's signature and expiry and returns the embedded
// identity. Every failure mode collapses to ErrInvalidToken; callers must not
// learn whether a token was malformed, forged or merely expired.
func (tm *TokenManager) Verify(tokenString string) (*Identity, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secretKey, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.Subject, JWTID: claims.ID}, nil
}
