package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "user-42")
	require.NoError(t, err)

	userID, err := UserIDFromToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := GenerateToken("secret", "user-42")
	require.NoError(t, err)

	_, err = UserIDFromToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := UserIDFromToken("secret", "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmptyUserIDRejected(t *testing.T) {
	token, err := GenerateToken("secret", "")
	require.NoError(t, err)

	_, err = UserIDFromToken("secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
