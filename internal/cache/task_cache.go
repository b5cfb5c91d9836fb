package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	dom "github.com/pavel-2009/ai-task-assistant/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyListPrefix   = "task:list:"
	keySearchPrefix = "task:search:"
)

// TaskCache caches per-user task list and search results in Redis.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

func listKey(userID int64) string {
	return keyListPrefix + strconv.FormatInt(userID, 10)
}

func searchKey(userID int64, q string) string {
	return keySearchPrefix + strconv.FormatInt(userID, 10) + ":" + normalizeQuery(q)
}

// GetList returns the cached list for the user or nil if miss.
func (c *TaskCache) GetList(ctx context.Context, userID int64) ([]dom.Task, error) {
	return c.get(ctx, listKey(userID))
}

// SetList stores the user's list in cache.
func (c *TaskCache) SetList(ctx context.Context, userID int64, list []dom.Task) error {
	return c.set(ctx, listKey(userID), list)
}

// GetSearch returns the cached search result for query q, or nil if miss.
func (c *TaskCache) GetSearch(ctx context.Context, userID int64, q string) ([]dom.Task, error) {
	return c.get(ctx, searchKey(userID, q))
}

// SetSearch stores the search result in cache.
func (c *TaskCache) SetSearch(ctx context.Context, userID int64, q string, list []dom.Task) error {
	return c.set(ctx, searchKey(userID, q), list)
}

// Invalidate removes the user's list and search keys (cache invalidation on write).
func (c *TaskCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.rdb.Del(ctx, listKey(userID)).Err(); err != nil {
		return err
	}
	prefix := keySearchPrefix + strconv.FormatInt(userID, 10) + ":"
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *TaskCache) get(ctx context.Context, key string) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *TaskCache) set(ctx context.Context, key string, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
