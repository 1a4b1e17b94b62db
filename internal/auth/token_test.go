package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 15*time.Minute, 14*24*time.Hour)

	token, expiresAt, err := tm.IssueAccessToken("user-1", "owner@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestRefreshTokenCarriesFreshJTI(t *testing.T) {
	tm := NewTokenManager("test-secret", 15*time.Minute, 14*24*time.Hour)

	token1, jti1, _, err := tm.IssueRefreshToken("user-1", "owner@example.com")
	require.NoError(t, err)
	token2, jti2, _, err := tm.IssueRefreshToken("user-1", "owner@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, jti1)
	assert.NotEqual(t, jti1, jti2)

	claims, err := tm.VerifyRefreshToken(token1)
	require.NoError(t, err)
	assert.Equal(t, jti1, claims.ID)
	assert.Equal(t, "user-1", claims.Subject)

	claims2, err := tm.VerifyRefreshToken(token2)
	require.NoError(t, err)
	assert.Equal(t, jti2, claims2.ID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", 15*time.Minute, 14*24*time.Hour)
	other := NewTokenManager("secret-b", 15*time.Minute, 14*24*time.Hour)

	token, _, err := tm.IssueAccessToken("user-1", "owner@example.com")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredAccessToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Millisecond, 14*24*time.Hour)

	token, _, err := tm.IssueAccessToken("user-1", "owner@example.com")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = tm.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestAccessExpiresBeforeRefresh(t *testing.T) {
	tm := NewTokenManager("test-secret", 15*time.Minute, 14*24*time.Hour)

	_, accessExp, err := tm.IssueAccessToken("user-1", "owner@example.com")
	require.NoError(t, err)
	_, _, refreshExp, err := tm.IssueRefreshToken("user-1", "owner@example.com")
	require.NoError(t, err)

	assert.True(t, accessExp.Before(refreshExp),
		"access token must expire strictly before the paired refresh token")
}

func TestAccessTokenNotValidAsRefresh(t *testing.T) {
	tm := NewTokenManager("test-secret", 15*time.Minute, 14*24*time.Hour)

	// Access tokens carry no jti, so the refresh path must reject them.
	token, _, err := tm.IssueAccessToken("user-1", "owner@example.com")
	require.NoError(t, err)

	_, err = tm.VerifyRefreshToken(token)
	assert.Error(t, err)
}

func TestDefaultTTLsApplied(t *testing.T) {
	tm := NewTokenManager("test-secret", 0, 0)

	assert.Equal(t, 14*24*time.Hour, tm.RefreshTTL())
}
