package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ncb6206/SIKBOO/pkg/database"
)

// selectionTTL bounds how long a member's last ingredient selection survives.
// Keys expire on their own, so the cache never grows with inactive members.
const selectionTTL = 24 * time.Hour

// SelectionCache remembers each member's last generation selection in Redis
// so the ingredient picker can restore it across visits.
type SelectionCache struct {
	redis *database.Redis
}

// NewSelectionCache creates a new selection cache
func NewSelectionCache(redis *database.Redis) *SelectionCache {
	return &SelectionCache{redis: redis}
}

// Store saves the member's selected ingredient ids, refreshing the TTL.
func (c *SelectionCache) Store(ctx context.Context, memberID int64, ingredientIDs []int64) error {
	payload, err := json.Marshal(ingredientIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	key := selectionKey(memberID)
	if err := c.redis.Client.Set(ctx, key, payload, selectionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store selection: %w", err)
	}
	return nil
}

// Get returns the member's last selection, or an empty slice when none is cached.
func (c *SelectionCache) Get(ctx context.Context, memberID int64) ([]int64, error) {
	payload, err := c.redis.Client.Get(ctx, selectionKey(memberID)).Bytes()
	if err == redis.Nil {
		return []int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get selection: %w", err)
	}

	var ids []int64
	if err := json.Unmarshal(payload, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selection: %w", err)
	}
	return ids, nil
}

// Clear drops the member's cached selection.
func (c *SelectionCache) Clear(ctx context.Context, memberID int64) error {
	if err := c.redis.Client.Del(ctx, selectionKey(memberID)).Err(); err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	return nil
}

func selectionKey(memberID int64) string {
	return fmt.Sprintf("selection:member:%d", memberID)
}
