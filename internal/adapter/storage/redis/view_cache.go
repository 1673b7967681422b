package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ViewCache implements ports.ViewCache. Each path has a version counter;
// entries are stored under the version read before the data was computed, so
// Invalidate is a single INCR that orphans every variant of the path at once,
// including fills still in flight. Orphans age out through the TTL.
type ViewCache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewViewCache creates a Redis-backed view cache.
func NewViewCache(client *goredis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{
		client: client,
		prefix: "view:",
		ttl:    ttl,
	}
}

func (c *ViewCache) versionKey(path string) string {
	return c.prefix + "version:" + path
}

func (c *ViewCache) entryKey(path, variant string, version int64) string {
	return fmt.Sprintf("%sentry:%s:v%d:%s", c.prefix, path, version, variant)
}

func (c *ViewCache) version(ctx context.Context, path string) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(path)).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis view version get: %w", err)
	}
	return v, nil
}

// Get decodes the cached entry for path/variant into dest and returns the
// version it read under. Returns hit=false on a miss.
func (c *ViewCache) Get(ctx context.Context, path, variant string, dest any) (int64, bool, error) {
	version, err := c.version(ctx, path)
	if err != nil {
		return 0, false, err
	}

	raw, err := c.client.Get(ctx, c.entryKey(path, variant, version)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return version, false, nil
		}
		return version, false, fmt.Errorf("redis view get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return version, false, fmt.Errorf("decode cached view: %w", err)
	}
	return version, true, nil
}

// Set stores value for path/variant under version, the one returned by the
// Get that missed. If the path was invalidated since, the entry lands under
// a retired version and is never read.
func (c *ViewCache) Set(ctx context.Context, path, variant string, version int64, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	if err := c.client.Set(ctx, c.entryKey(path, variant, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis view set: %w", err)
	}
	return nil
}

// Invalidate bumps the path version, making every cached variant stale.
func (c *ViewCache) Invalidate(ctx context.Context, path string) error {
	if err := c.client.Incr(ctx, c.versionKey(path)).Err(); err != nil {
		return fmt.Errorf("redis view invalidate: %w", err)
	}
	return nil
}
