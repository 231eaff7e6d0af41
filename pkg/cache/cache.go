// Package cache stores built navigation trees.
//
// Trees are cached as encoded bytes under keys that combine the menu
// identity with the viewer roles, never the viewer itself, so the number of
// entries stays bounded by menus times role sets.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by helpers when a key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte cache with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl keeps it until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the cache resources.
	Close() error
}

// Key builds a cache key of the form prefix:sha256(parts).
func Key(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// GetJSON loads and decodes a cached value into v. It returns ErrCacheMiss
// when the key is absent or the entry cannot be decoded.
func GetJSON(ctx context.Context, c Cache, key string, v interface{}) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

// SetJSON encodes v and stores it.
func SetJSON(ctx context.Context, c Cache, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
