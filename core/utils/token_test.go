package utils

import (
	"testing"

	"modutime/core/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateToken("secret", userID, "alice@example.com", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, appErr := ParseToken("secret", token)
	require.Nil(t, appErr)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice", claims.Nickname)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), "alice@example.com", "alice")
	require.NoError(t, err)

	_, appErr := ParseToken("other", token)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidTokenFormat, appErr.Code)
}

func TestParseToken_Garbage(t *testing.T) {
	_, appErr := ParseToken("secret", "not.a.token")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidTokenFormat, appErr.Code)
}

func TestGenerateSlug(t *testing.T) {
	a := GenerateSlug("Team Sync")
	b := GenerateSlug("Team Sync")

	assert.True(t, len(a) > len("team-sync-"))
	assert.Contains(t, a, "team-sync-")
	assert.NotEqual(t, a, b, "same title must still produce distinct slugs")

	// Titles with no slug-safe characters fall back to the random suffix.
	assert.NotEmpty(t, GenerateSlug("!!!"))
}
