package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store shared by every server process. Keys expire after ttl so
// abandoned preview sessions do not accumulate; a zero ttl keeps them forever.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to addr and verifies the connection with a PING.
func NewRedis(ctx context.Context, addr string, db int, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return NewRedisFromClient(client, ttl), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: "valweek:",
		ttl:    ttl,
	}
}

// Persistent returns a Store on the same connection whose keys never expire.
// Closing either one closes the shared client.
func (r *Redis) Persistent() *Redis {
	return NewRedisFromClient(r.client, 0)
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) SetIfAbsent(ctx context.Context, key, value string) (string, bool, error) {
	created, err := r.client.SetNX(ctx, r.key(key), value, r.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to set %s: %w", key, err)
	}
	if created {
		return value, true, nil
	}

	current, ok, err := r.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if !ok {
		// Expired between SETNX and GET; try once more.
		return r.SetIfAbsent(ctx, key, value)
	}
	return current, false, nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
