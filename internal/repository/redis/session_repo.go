package redis

import (
	"context"
	"errors"
	"time"

	"Clubhouse_Hub/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	SessionKeyPrefix = "session:user:"
	RefreshKeyPrefix = "session:refresh:"
)

// SessionRepository 每个用户只保留最近一次签发的 access token 与 refresh jti
type SessionRepository struct {
	RDB *redis.Client
}

func (r *SessionRepository) AddSession(ctx context.Context, userID, token string, ttl time.Duration) error {
	if err := r.RDB.Set(ctx, SessionKeyPrefix+userID, token, ttl).Err(); err != nil {
		return unavailable("add session", err)
	}
	return nil
}

func (r *SessionRepository) GetSession(ctx context.Context, userID string) (string, error) {
	token, err := r.RDB.Get(ctx, SessionKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrTokenNotFound
	}
	if err != nil {
		return "", unavailable("get session", err)
	}
	return token, nil
}

func (r *SessionRepository) ExtendSession(ctx context.Context, userID string, ttl time.Duration) error {
	ok, err := r.RDB.Expire(ctx, SessionKeyPrefix+userID, ttl).Result()
	if err != nil {
		return unavailable("extend session", err)
	}
	if !ok {
		return repository.ErrTokenNotFound
	}
	return nil
}

func (r *SessionRepository) AddRefresh(ctx context.Context, userID, jti string, ttl time.Duration) error {
	if err := r.RDB.Set(ctx, RefreshKeyPrefix+userID, jti, ttl).Err(); err != nil {
		return unavailable("add refresh", err)
	}
	return nil
}

func (r *SessionRepository) GetRefresh(ctx context.Context, userID string) (string, error) {
	jti, err := r.RDB.Get(ctx, RefreshKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrTokenNotFound
	}
	if err != nil {
		return "", unavailable("get refresh", err)
	}
	return jti, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, userID string) error {
	if err := r.RDB.Del(ctx, SessionKeyPrefix+userID, RefreshKeyPrefix+userID).Err(); err != nil {
		return unavailable("delete session", err)
	}
	return nil
}
