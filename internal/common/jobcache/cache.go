// Package jobcache remembers the output of completed jobs so that a job the broker hands
// out again completes without another paid completion.
package jobcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "studyai:job:"

// Cache is safe to use as a nil pointer; every call is then a miss or a no-op.
type Cache struct {
	rdb redis.Cmdable
}

func New(rdb redis.Cmdable) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb}
}

func Key(taskType string, jobKey int64) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, taskType, jobKey)
}

// Load decodes a stored output into out. A miss returns false with no error.
func (c *Cache) Load(ctx context.Context, taskType string, jobKey int64, out interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	data, err := c.rdb.Get(ctx, Key(taskType, jobKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load cached output: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cached output: %w", err)
	}
	return true, nil
}

// Store saves output for ttl. A non-positive ttl stores nothing.
func (c *Cache) Store(ctx context.Context, taskType string, jobKey int64, output interface{}, ttl time.Duration) error {
	if c == nil || ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(taskType, jobKey), data, ttl).Err(); err != nil {
		return fmt.Errorf("store output: %w", err)
	}
	return nil
}
