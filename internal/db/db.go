// Package db defines the keyed-store abstraction the repositories are
// written against. Implementations live in subpackages (redis).
package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces.
// Consumers depend on narrow per-repository interfaces, not on Store itself.
type Store interface {
	Pinger
	HashStore
	KVStore
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based record operations.
//
// HSetNX and HSetIfLess are the conditional-write primitives the credit
// ledger is built on: field-level create-if-absent for idempotent account
// creation, and a guarded single-record update for the day rollover.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	// HSetNX sets a single field only if it does not exist yet.
	// Returns true if the field was set by this call.
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	// HIncrBy atomically increments a numeric hash field and returns the new value.
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	// HSetIfLess applies set atomically iff the numeric value of guardField is
	// less than guard (a missing field counts as 0). guardField itself is set
	// to guard as part of the update. Returns true if the update was applied.
	HSetIfLess(ctx context.Context, key, guardField string, guard int64, set map[string]string) (bool, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetNX stores a value only if the key is absent. Returns true if stored.
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
}

// ListStore provides append-only list operations (session messages, user indexes).
type ListStore interface {
	RPush(ctx context.Context, key string, values ...string) error
	// LRange returns elements in [start, stop]; negative indexes count from the tail.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}
