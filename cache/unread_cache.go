// Package cache holds the optional Redis cache for per-user unread
// notification counts. The count query walks two tables on every poll,
// so hot users are served from Redis; any write that can change the
// count invalidates the key.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const unreadTTL = 5 * time.Minute

type UnreadCache struct {
	client *redis.Client
}

// NewUnreadCache wraps a Redis client. A nil client yields a cache that
// misses on every read, so callers never need to branch on whether Redis
// is configured.
func NewUnreadCache(client *redis.Client) *UnreadCache {
	return &UnreadCache{client: client}
}

func unreadKey(userID int) string {
	return fmt.Sprintf("user:%d:unread_count", userID)
}

// Get returns (count, true) on a hit. Redis errors degrade to a miss.
func (c *UnreadCache) Get(ctx context.Context, userID int) (int, bool) {
	if c.client == nil {
		return 0, false
	}

	count, err := c.client.Get(ctx, unreadKey(userID)).Int()
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *UnreadCache) Set(ctx context.Context, userID, count int) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, unreadKey(userID), count, unreadTTL).Err()
}

func (c *UnreadCache) Invalidate(ctx context.Context, userID int) error {
	if c.client == nil {
		return nil
	}
	err := c.client.Del(ctx, unreadKey(userID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// InvalidateAll clears every unread-count key. Used after a broadcast,
// which changes the count for everyone.
func (c *UnreadCache) InvalidateAll(ctx context.Context) error {
	if c.client == nil {
		return nil
	}

	iter := c.client.Scan(ctx, 0, "user:*:unread_count", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
