package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifiesAndDiffers(t *testing.T) {
	hash1, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	hash2, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	// Salted hashing: same input, different output, both verify.
	assert.NotEqual(t, hash1, hash2)
	assert.True(t, CheckPassword("correct horse battery", hash1))
	assert.True(t, CheckPassword("correct horse battery", hash2))
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.False(t, CheckPassword("wrong horse", hash))
}

func TestCheckPassword_MalformedHashNeverPanics(t *testing.T) {
	assert.False(t, CheckPassword("anything", ""))
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
}
