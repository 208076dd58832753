package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/account-service/internal/domain"
)

// IdentityCache stores public identity data. Entries never contain password hashes.
type IdentityCache interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Set(ctx context.Context, user domain.User) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type cachedIdentity struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Status    domain.UserStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type redisIdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIdentityCache returns a cache backed by the given client.
func NewRedisIdentityCache(client *redis.Client, ttl time.Duration) IdentityCache {
	return &redisIdentityCache{client: client, ttl: ttl}
}

func identityKey(id uuid.UUID) string {
	return "identity:" + id.String()
}

func (c *redisIdentityCache) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	raw, err := c.client.Get(ctx, identityKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var entry cachedIdentity
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:        entry.ID,
		Name:      entry.Name,
		Status:    entry.Status,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}, nil
}

func (c *redisIdentityCache) Set(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(cachedIdentity{
		ID:        user.ID,
		Name:      user.Name,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, identityKey(user.ID), raw, c.ttl).Err()
}

func (c *redisIdentityCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, identityKey(id)).Err()
}
