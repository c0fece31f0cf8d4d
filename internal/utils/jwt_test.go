package utils

import (
	"testing"
	"time"

	"github.com/digitup/immo-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Name:  "Agent Immobilier",
		Email: "agent@digitup.com",
		Role:  models.RoleAgent,
	}
}

func TestGenerateToken(t *testing.T) {
	user := testUser()
	abilities := []string{"create-property", "view-property"}

	token, jti, err := GenerateToken(user, abilities, testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, jti)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, models.RoleAgent, claims.Role)
	assert.Equal(t, abilities, claims.Abilities)
	assert.Equal(t, jti, claims.ID)
}

func TestGenerateTokenUniqueJTI(t *testing.T) {
	user := testUser()

	_, first, err := GenerateToken(user, nil, testSecret, time.Hour)
	require.NoError(t, err)
	_, second, err := GenerateToken(user, nil, testSecret, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := GenerateToken(testUser(), nil, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "another-secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, _, err := GenerateToken(testUser(), nil, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testSecret)
	assert.Error(t, err)
}
