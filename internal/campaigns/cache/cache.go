// Package cache keeps reconciled contacts in Redis so repeated filter and
// selection requests skip the full lead and order scan.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orderhub_backend/internal/campaigns/ports"
	"orderhub_backend/internal/contacts"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "contacts:v1:"

// RedisCache implements ports.ContactCache.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ ports.ContactCache = (*RedisCache)(nil)

// New wraps an existing client. Entries expire after ttl.
func New(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Dial connects to redisURL and verifies the connection.
func Dial(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(rdb, ttl), nil
}

func key(businessID uuid.UUID) string {
	return keyPrefix + businessID.String()
}

func (c *RedisCache) Get(ctx context.Context, businessID uuid.UUID) ([]contacts.Contact, bool, error) {
	raw, err := c.rdb.Get(ctx, key(businessID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached contacts: %w", err)
	}

	var list []contacts.Contact
	if err := json.Unmarshal(raw, &list); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = c.rdb.Del(ctx, key(businessID)).Err()
		return nil, false, nil
	}
	return list, true, nil
}

func (c *RedisCache) Set(ctx context.Context, businessID uuid.UUID, list []contacts.Contact) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}
	if err := c.rdb.Set(ctx, key(businessID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached contacts: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, businessID uuid.UUID) error {
	if err := c.rdb.Del(ctx, key(businessID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached contacts: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
