package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, err := other.Issue("user-1")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	_, err := tm.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Issue("user-1")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
