package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSnapshotKey is the Redis key used when none is configured.
const DefaultSnapshotKey = "catalog:snapshot"

// Store keeps a catalog snapshot in Redis using the same JSON document as the catalog file.
type Store struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewStore constructs a snapshot store. A zero ttl keeps the snapshot until overwritten.
func NewStore(client *redis.Client, key string, ttl time.Duration) *Store {
	if key == "" {
		key = DefaultSnapshotKey
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Store{client: client, key: key, ttl: ttl}
}

// Publish serialises c and stores it under the snapshot key.
func (s *Store) Publish(ctx context.Context, c *Catalog) error {
	if s == nil || s.client == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, buf.Bytes(), s.ttl).Err(); err != nil {
		return fmt.Errorf("publish catalog snapshot: %w", err)
	}
	return nil
}

// Fetch loads the snapshot into a new catalog.
func (s *Store) Fetch(ctx context.Context) (*Catalog, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("catalog snapshot: %w", ErrNotFound)
	}
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("catalog snapshot %s: %w", s.key, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch catalog snapshot: %w", err)
	}
	c := New()
	if err := c.load(bytes.NewReader(data), "redis:"+s.key); err != nil {
		return nil, err
	}
	return c, nil
}

// Ping reports whether the backing Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errors.New("catalog snapshot store not configured")
	}
	return s.client.Ping(ctx).Err()
}
