package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	LoginPendingPrefix   = "login:pending:"
	LoginConfirmedPrefix = "login:confirmed:"
	LoginEmailPrefix     = "login:email:"
	LoginAttemptsPrefix  = "login:attempts:"
	AuthCodePrefix       = "login:code:"
)

// 原子执行：取 pending + 写 confirmed 与邮箱索引 + 删除 pending
var confirmScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("SET", KEYS[2], val, "PX", ARGV[1])
redis.call("SET", KEYS[3], ARGV[2], "PX", ARGV[1])
redis.call("DEL", KEYS[1])
return 1
`)

// 一次性消费：取走 confirmed，邮箱索引仍指向它时一并删除
var consumeScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if not val then
  return false
end
redis.call("DEL", KEYS[1], KEYS[3])
if redis.call("GET", KEYS[2]) == ARGV[1] then
  redis.call("DEL", KEYS[2])
end
return val
`)

// 错误计数与过期一起设置，避免留下永不过期的计数
var attemptScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
redis.call("PEXPIRE", KEYS[1], ARGV[1])
return n
`)

// LoginRepository 免密登录两阶段：邮件发出前为 pending，发出后转为 confirmed
type LoginRepository struct {
	RDB *redis.Client
}

func (r *LoginRepository) SavePendingLogin(ctx context.Context, req model.LoginRequest, ttl time.Duration) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if err := r.RDB.Set(ctx, LoginPendingPrefix+req.TokenHash, raw, ttl).Err(); err != nil {
		return unavailable("save pending login", err)
	}
	return nil
}

func (r *LoginRepository) ConfirmLogin(ctx context.Context, tokenHash, email string, ttl time.Duration) error {
	keys := []string{LoginPendingPrefix + tokenHash, LoginConfirmedPrefix + tokenHash, LoginEmailPrefix + email}
	ok, err := confirmScript.Run(ctx, r.RDB, keys, ttl.Milliseconds(), tokenHash).Int()
	if err != nil {
		return unavailable("confirm login", err)
	}
	if ok != 1 {
		return repository.ErrTokenNotFound
	}
	return nil
}

// DeletePendingLogin 幂等
func (r *LoginRepository) DeletePendingLogin(ctx context.Context, tokenHash string) error {
	if err := r.RDB.Del(ctx, LoginPendingPrefix+tokenHash).Err(); err != nil {
		return unavailable("delete pending login", err)
	}
	return nil
}

func (r *LoginRepository) ConsumeLogin(ctx context.Context, tokenHash string) (*model.LoginRequest, error) {
	confirmedKey := LoginConfirmedPrefix + tokenHash
	raw, err := r.RDB.Get(ctx, confirmedKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrTokenNotFound
	}
	if err != nil {
		return nil, unavailable("consume login", err)
	}
	var req model.LoginRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}

	// 并发消费同一个链接时只有一个能取走
	keys := []string{confirmedKey, LoginEmailPrefix + req.Email, LoginAttemptsPrefix + tokenHash}
	_, err = consumeScript.Run(ctx, r.RDB, keys, tokenHash).Text()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrTokenNotFound
	}
	if err != nil {
		return nil, unavailable("consume login", err)
	}
	return &req, nil
}

func (r *LoginRepository) FindLoginByEmail(ctx context.Context, email string) (*model.LoginRequest, error) {
	tokenHash, err := r.RDB.Get(ctx, LoginEmailPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrTokenNotFound
	}
	if err != nil {
		return nil, unavailable("find login", err)
	}
	raw, err := r.RDB.Get(ctx, LoginConfirmedPrefix+tokenHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrTokenNotFound
	}
	if err != nil {
		return nil, unavailable("find login", err)
	}
	var req model.LoginRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *LoginRepository) RecordFailedCode(ctx context.Context, tokenHash string, ttl time.Duration) (int64, error) {
	n, err := attemptScript.Run(ctx, r.RDB, []string{LoginAttemptsPrefix + tokenHash}, ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, unavailable("record failed code", err)
	}
	return n, nil
}

func (r *LoginRepository) SaveAuthCode(ctx context.Context, code, identityID string, ttl time.Duration) error {
	if err := r.RDB.Set(ctx, AuthCodePrefix+code, identityID, ttl).Err(); err != nil {
		return unavailable("save auth code", err)
	}
	return nil
}

func (r *LoginRepository) ConsumeAuthCode(ctx context.Context, code string) (string, error) {
	id, err := r.RDB.GetDel(ctx, AuthCodePrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrTokenNotFound
	}
	if err != nil {
		return "", unavailable("consume auth code", err)
	}
	return id, nil
}
