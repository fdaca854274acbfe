// Package redis provides a Redis-backed implementation of
// domain.KeyValueStore, for carts shared by several API instances.
package redis

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/mrops-br/chaverito-api/internal/domain"
)

// KeyValueStore stores values in Redis, optionally expiring them after ttl
type KeyValueStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New creates a store over an existing client. A ttl of zero keeps
// entries forever.
func New(client redis.UniversalClient, ttl time.Duration) *KeyValueStore {
	return &KeyValueStore{client: client, ttl: ttl}
}

// Dial connects to the Redis server at addr and checks it responds
func Dial(ctx context.Context, addr string, ttl time.Duration) (*KeyValueStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "redis: ping %q", addr)
	}
	return New(client, ttl), nil
}

// Close closes the underlying client
func (s *KeyValueStore) Close() error {
	return s.client.Close()
}

// Get returns the value stored under key
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "redis: get %q", key)
	}
	return value, nil
}

// Set stores value under key and refreshes its expiry
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis: set %q", key)
	}
	return nil
}
