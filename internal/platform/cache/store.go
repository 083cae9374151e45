package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps JSON snapshots in Redis under a common prefix.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore instantiates the store. A nil client yields a store that never hits.
func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

// Key joins parts below the store prefix.
func (s *Store) Key(parts ...string) string {
	return strings.Join(append([]string{s.prefix}, parts...), ":")
}

// PutJSON stores value under key, below the store prefix.
func (s *Store) PutJSON(ctx context.Context, key string, value any) error {
	if s == nil || s.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.Key(key), raw, s.ttl).Err()
}

// GetJSON loads key into dest and reports whether it was present.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	payload, err := s.client.Get(ctx, s.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.Key(key)).Err()
}
