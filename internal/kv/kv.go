// Package kv holds the small key-value slots that back preview sessions:
// the demo timer baseline, the mode preference and the admin override.
package kv

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the backing store cannot be reached.
var ErrUnavailable = errors.New("key-value store unavailable")

// Store is a string key-value store with an atomic set-if-absent.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// SetIfAbsent stores value only when key is missing. It returns the value
	// held after the call and whether this call created it.
	SetIfAbsent(ctx context.Context, key, value string) (string, bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
