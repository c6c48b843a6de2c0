package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, jti, expiresAt, err := tm.Issue("user-123")
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, jti, identity.JWTID)
}

func TestTokenManager_DistinctSessionsPerIssue(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token1, jti1, _, err := tm.Issue("user-123")
	require.NoError(t, err)
	token2, jti2, _, err := tm.Issue("user-123")
	require.NoError(t, err)

	// Two logins for the same user are independent sessions.
	assert.NotEqual(t, jti1, jti2)
	assert.NotEqual(t, token1, token2)

	_, err = tm.Verify(token1)
	assert.NoError(t, err)
	_, err = tm.Verify(token2)
	assert.NoError(t, err)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, _, _, err := tm.Issue("user-123")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	// A correctly signed token whose expiry has passed is still invalid.
	tm := NewTokenManager("test-secret", -time.Minute)

	token, _, _, err := tm.Issue("user-123")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_GarbageToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	for _, bad := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30."} {
		_, err := tm.Verify(bad)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q should be invalid", bad)
	}
}
