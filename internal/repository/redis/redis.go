// Package redis keeps passwordless-login artifacts, identities and sessions in redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"Clubhouse_Hub/internal/repository"

	"github.com/redis/go-redis/v9"
)

// Init 初始化 Redis 客户端并做一次 Ping 健康检查
func Init(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// AuthStore 组合登录、身份、会话三个仓储
type AuthStore struct {
	*LoginRepository
	*IdentityRepository
	*SessionRepository
}

var (
	_ repository.LoginStore    = (*AuthStore)(nil)
	_ repository.IdentityStore = (*AuthStore)(nil)
	_ repository.SessionStore  = (*AuthStore)(nil)
)

func NewAuthStore(rdb *redis.Client) *AuthStore {
	return &AuthStore{
		LoginRepository:    &LoginRepository{RDB: rdb},
		IdentityRepository: &IdentityRepository{RDB: rdb},
		SessionRepository:  &SessionRepository{RDB: rdb},
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, repository.ErrStoreUnavailable, err)
}
