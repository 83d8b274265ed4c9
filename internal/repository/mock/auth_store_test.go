package mock

import (
	"context"
	"testing"
	"time"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthStore_LoginLifecycle(t *testing.T) {
	ctx := context.Background()
	a := NewAuthStore()
	req := model.LoginRequest{TokenHash: "h1", Email: "a@x.com", CodeHash: "c"}

	// 未确认前不能消费
	require.NoError(t, a.SavePendingLogin(ctx, req, time.Minute))
	_, err := a.ConsumeLogin(ctx, "h1")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)

	require.NoError(t, a.ConfirmLogin(ctx, "h1", "a@x.com", time.Minute))
	assert.ErrorIs(t, a.ConfirmLogin(ctx, "h1", "a@x.com", time.Minute), repository.ErrTokenNotFound)

	byEmail, err := a.FindLoginByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "h1", byEmail.TokenHash)

	got, err := a.ConsumeLogin(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = a.ConsumeLogin(ctx, "h1")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	_, err = a.FindLoginByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestAuthStore_Expiry(t *testing.T) {
	ctx := context.Background()
	a := NewAuthStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	require.NoError(t, a.SaveAuthCode(ctx, "code", "u1", time.Minute))
	require.NoError(t, a.AddSession(ctx, "u1", "tok", time.Minute))

	now = now.Add(2 * time.Minute)
	_, err := a.ConsumeAuthCode(ctx, "code")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	_, err = a.GetSession(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestAuthStore_Identities(t *testing.T) {
	ctx := context.Background()
	a := NewAuthStore()

	missing, err := a.FindIdentityByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, a.CreateIdentity(ctx, model.Identity{ID: "u1", Email: "a@x.com"}))
	assert.ErrorIs(t, a.CreateIdentity(ctx, model.Identity{ID: "u2", Email: "a@x.com"}), repository.ErrIdentityExists)

	got, err := a.FindIdentityByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestAuthStore_FailedCodeCounter(t *testing.T) {
	ctx := context.Background()
	a := NewAuthStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	for want := int64(1); want <= 3; want++ {
		n, err := a.RecordFailedCode(ctx, "h1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	// 计数随登录请求一起过期
	now = now.Add(2 * time.Minute)
	n, err := a.RecordFailedCode(ctx, "h1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAuthStore_RefreshRevokedWithSession(t *testing.T) {
	ctx := context.Background()
	a := NewAuthStore()

	_, err := a.GetRefresh(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)

	require.NoError(t, a.AddSession(ctx, "u1", "tok", time.Minute))
	require.NoError(t, a.AddRefresh(ctx, "u1", "jti-1", time.Hour))
	jti, err := a.GetRefresh(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "jti-1", jti)

	require.NoError(t, a.DeleteSession(ctx, "u1"))
	_, err = a.GetRefresh(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	_, err = a.GetSession(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}
