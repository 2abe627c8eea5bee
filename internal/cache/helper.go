package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by GetJSON when the key is absent or the cache is
// disabled.
var ErrMiss = errors.New("cache miss")

// GetJSON fetches a key and unmarshals it into dest.
func GetJSON(ctx context.Context, key string, dest any) error {
	if client == nil {
		return ErrMiss
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

// SetJSON marshals value and stores it under key with the given TTL.
// Failures are swallowed; the cache is best-effort.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside implements the cache-aside pattern. On a hit, dest is populated from
// the cache. On a miss, load is called to populate dest and the result is
// cached under key with the given TTL.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if err := GetJSON(ctx, key, dest); err == nil {
		return nil
	}

	if err := load(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}
