package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// generationKey holds a monotonically increasing generation number in
// Redis. Cached view keys embed the current generation, so one Incr
// orphans every prior entry at once and the TTL reaps them. The key
// lives in the shared Redis, which means a bump from any instance is
// immediately visible to all of them.
const generationKey = "dashboard:generation"

// Cache stores serialised dashboard views in Redis behind generation
// versioned keys. A nil Cache or nil client degrades to pass-through:
// every fetch runs the loader.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// BuildKey composes a cache key from parts plus the current generation.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if !c.enabled() {
		return joined, nil
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, gen), nil
}

// generation reads the current generation, initialising it to 1 when the
// key is missing or holds a non-positive value.
func (c *Cache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		gen = 0
	case err != nil:
		return 0, err
	}
	if gen <= 0 {
		gen = 1
		if err := c.client.Set(ctx, generationKey, gen, 0).Err(); err != nil {
			return 0, err
		}
	}
	return gen, nil
}

// FetchJSON returns the cached value for key, running the loader and
// storing its result on a miss. The loader's result round-trips through
// JSON either way, so dest always sees the serialised form.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c.enabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.enabled() {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump advances the generation, invalidating every cached view for every
// instance sharing the Redis.
func (c *Cache) Bump(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Incr(ctx, generationKey).Err()
}

func keyViews(window Window) string {
	return strings.Join([]string{"dashboard", "views", string(window)}, ":")
}
