package repository

import (
	"context"
	"errors"
	"time"

	"Clubhouse_Hub/internal/model"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrIdentityExists   = errors.New("identity already exists")
	ErrStoreUnavailable = errors.New("token store unavailable")
)

// LoginStore 保存免密登录请求：先写 pending，邮件发出后转为 confirmed
type LoginStore interface {
	SavePendingLogin(ctx context.Context, req model.LoginRequest, ttl time.Duration) error
	ConfirmLogin(ctx context.Context, tokenHash, email string, ttl time.Duration) error
	DeletePendingLogin(ctx context.Context, tokenHash string) error
	ConsumeLogin(ctx context.Context, tokenHash string) (*model.LoginRequest, error)
	FindLoginByEmail(ctx context.Context, email string) (*model.LoginRequest, error)
	// RecordFailedCode 累计该登录请求的验证码错误次数，返回累计值
	RecordFailedCode(ctx context.Context, tokenHash string, ttl time.Duration) (int64, error)
	SaveAuthCode(ctx context.Context, code, identityID string, ttl time.Duration) error
	ConsumeAuthCode(ctx context.Context, code string) (string, error)
}

// IdentityStore keeps identity-provider records keyed by id and by email.
type IdentityStore interface {
	FindIdentity(ctx context.Context, id string) (*model.Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (*model.Identity, error)
	CreateIdentity(ctx context.Context, identity model.Identity) error
}

// SessionStore 每个用户一个有效 access token 和一个有效 refresh jti
type SessionStore interface {
	AddSession(ctx context.Context, userID, token string, ttl time.Duration) error
	GetSession(ctx context.Context, userID string) (string, error)
	ExtendSession(ctx context.Context, userID string, ttl time.Duration) error
	AddRefresh(ctx context.Context, userID, jti string, ttl time.Duration) error
	GetRefresh(ctx context.Context, userID string) (string, error)
	// DeleteSession 同时吊销 access 与 refresh
	DeleteSession(ctx context.Context, userID string) error
}

// AuthStore is the full token store used by the identity provider.
type AuthStore interface {
	LoginStore
	IdentityStore
	SessionStore
}
