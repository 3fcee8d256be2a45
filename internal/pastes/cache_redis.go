package pastes

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	p := strings.TrimSpace(prefix)
	if p == "" {
		p = "pastebox:cache:"
	}
	return &RedisCache{client: client, prefix: p}
}

// cachedPaste carries the password hash explicitly; Paste hides it from its
// own JSON so API responses cannot leak it.
type cachedPaste struct {
	Paste        Paste  `json:"paste"`
	PasswordHash string `json:"password_hash,omitempty"`
}

func (c *RedisCache) keyByID(id string) string {
	return c.prefix + "paste:" + id
}

func (c *RedisCache) keyRecent() string {
	return c.prefix + "paste:recent"
}

func (c *RedisCache) GetByID(ctx context.Context, id string) (*Paste, bool, error) {
	val, err := c.client.Get(ctx, c.keyByID(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var cp cachedPaste
	if err := json.Unmarshal([]byte(val), &cp); err != nil {
		return nil, false, err
	}
	p := cp.Paste
	p.PasswordHash = cp.PasswordHash
	p.HasPassword = cp.PasswordHash != ""
	return &p, true, nil
}

func (c *RedisCache) SetByID(ctx context.Context, p *Paste, ttl time.Duration) error {
	payload, err := json.Marshal(cachedPaste{Paste: *p, PasswordHash: p.PasswordHash})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.keyByID(p.ID), payload, ttl).Err()
}

func (c *RedisCache) DeleteByID(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.keyByID(id)).Err()
}

func (c *RedisCache) GetRecent(ctx context.Context) ([]Summary, bool, error) {
	val, err := c.client.Get(ctx, c.keyRecent()).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var out []Summary
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *RedisCache) SetRecent(ctx context.Context, summaries []Summary, ttl time.Duration) error {
	payload, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.keyRecent(), payload, ttl).Err()
}

func (c *RedisCache) InvalidateRecent(ctx context.Context) error {
	return c.client.Del(ctx, c.keyRecent()).Err()
}
