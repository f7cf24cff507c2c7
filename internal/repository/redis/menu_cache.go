package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
)

// MenuCache stores rendered navigation menus per user so repeated dashboard
// loads skip the permission flattening and filtering work.
type MenuCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewMenuCache constructs a cache with the given key prefix and entry TTL.
func NewMenuCache(client *redis.Client, prefix string, ttl time.Duration) *MenuCache {
	return &MenuCache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached menu for the user, or ok=false on a miss.
func (c *MenuCache) Get(ctx context.Context, userID string) ([]rbac.MenuItem, bool, error) {
	payload, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get menu: %w", err)
	}

	var menu []rbac.MenuItem
	if err := json.Unmarshal(payload, &menu); err != nil {
		return nil, false, fmt.Errorf("decode cached menu: %w", err)
	}

	return menu, true, nil
}

// Set stores the rendered menu for the user.
func (c *MenuCache) Set(ctx context.Context, userID string, menu []rbac.MenuItem) error {
	payload, err := json.Marshal(menu)
	if err != nil {
		return fmt.Errorf("encode menu: %w", err)
	}

	if err := c.client.Set(ctx, c.key(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set menu: %w", err)
	}

	return nil
}

// Invalidate drops the cached menu, used after role or permission changes.
func (c *MenuCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del menu: %w", err)
	}
	return nil
}

func (c *MenuCache) key(userID string) string {
	return fmt.Sprintf("%s:menu:%s", c.prefix, userID)
}
