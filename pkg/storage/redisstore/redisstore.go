// Package redisstore persists session state to Redis so that several
// server-side instances embedding the SDK can share one session: whichever
// instance refreshes the access token, the others observe it.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store implements storage.Store on a Redis client. The client is owned by
// the caller; Close is a no-op.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps client. All keys are stored under prefix (default "cakeauth:").
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "cakeauth:"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k string) string { return s.prefix + k }

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			// Already expired; make sure nothing stale is left behind.
			return s.Delete(ctx, key)
		}
	}
	return s.client.Set(ctx, s.key(key), value, ttl).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *Store) Close() error { return nil }
