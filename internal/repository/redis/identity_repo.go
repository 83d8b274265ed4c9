package redis

import (
	"context"
	"encoding/json"
	"errors"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	IdentityKeyPrefix      = "identity:id:"
	IdentityEmailKeyPrefix = "identity:email:"
)

// IdentityRepository 身份记录不过期，邮箱索引用 SETNX 保证唯一
type IdentityRepository struct {
	RDB *redis.Client
}

func (r *IdentityRepository) FindIdentity(ctx context.Context, id string) (*model.Identity, error) {
	raw, err := r.RDB.Get(ctx, IdentityKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("find identity", err)
	}
	var ident model.Identity
	if err := json.Unmarshal(raw, &ident); err != nil {
		return nil, err
	}
	return &ident, nil
}

func (r *IdentityRepository) FindIdentityByEmail(ctx context.Context, email string) (*model.Identity, error) {
	id, err := r.RDB.Get(ctx, IdentityEmailKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("find identity", err)
	}
	return r.FindIdentity(ctx, id)
}

func (r *IdentityRepository) CreateIdentity(ctx context.Context, identity model.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	ok, err := r.RDB.SetNX(ctx, IdentityEmailKeyPrefix+identity.Email, identity.ID, 0).Result()
	if err != nil {
		return unavailable("create identity", err)
	}
	if !ok {
		return repository.ErrIdentityExists
	}
	ok, err = r.RDB.SetNX(ctx, IdentityKeyPrefix+identity.ID, raw, 0).Result()
	if err != nil {
		return unavailable("create identity", err)
	}
	if !ok {
		// id 冲突时撤回邮箱索引
		_ = r.RDB.Del(ctx, IdentityEmailKeyPrefix+identity.Email).Err()
		return repository.ErrIdentityExists
	}
	return nil
}
