package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(now *time.Time) *TokenIssuer {
	t := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	t.Now = func() time.Time { return *now }
	return t
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(&now)

	pair, err := issuer.GeneratePair("u1", "maya@example.com")
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "maya@example.com", claims.Email)

	claims, err = issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, pair.RefreshID, claims.ID)
}

func TestTokenIssuer_KindsAreNotInterchangeable(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(&now)
	pair, err := issuer.GeneratePair("u1", "a@b.com")
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = issuer.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)

	// 相同密钥时靠 subject 区分
	same := newTestIssuer(&now)
	same.RefreshSecret = same.AccessSecret
	pair, err = same.GeneratePair("u1", "a@b.com")
	require.NoError(t, err)
	_, err = same.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_Expired(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(&now)
	pair, err := issuer.GeneratePair("u1", "a@b.com")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = issuer.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
	_, err = issuer.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = issuer.ParseRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	now := time.Now()
	pair, err := newTestIssuer(&now).GeneratePair("u1", "a@b.com")
	require.NoError(t, err)

	other := NewTokenIssuer("other", "other-refresh", 0, 0)
	_, err = other.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Equal(t, DefaultAccessTTL, other.AccessTTL)
	assert.Equal(t, DefaultRefreshTTL, other.RefreshTTL)

	_, err = other.ParseAccess("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
