package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("SecurePass123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	first, err := HashPassword("SecurePass123")
	require.NoError(t, err)
	second, err := HashPassword("SecurePass123")
	require.NoError(t, err)

	// Random salt means the same password never hashes identically
	assert.NotEqual(t, first, second)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("SecurePass123")
	require.NoError(t, err)

	valid, err := VerifyPassword("SecurePass123", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("WrongPass123", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	_, err := VerifyPassword("whatever", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = VerifyPassword("whatever", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestVerifyPasswordEmptyPassword(t *testing.T) {
	hash, err := HashPassword("")
	require.NoError(t, err)

	valid, err := VerifyPassword("", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("nonempty", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}
