// Package storage defines the key/value persistence boundary used by the
// session lifecycle. Credential cookies and cache snapshots are written
// through a Store, so hosts can choose where session state lives: process
// memory by default, a SQLite file for CLI and desktop continuity, or
// Redis for multi-instance server-side hosts.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by stores that have been closed.
var ErrClosed = errors.New("storage: store closed")

// Store is a minimal expiring key/value store. Implementations must treat
// an entry whose expiry has passed as absent on read. A zero expiry means
// the entry never expires.
//
// Stores are safe for concurrent use.
type Store interface {
	// Get returns the value for key, reporting whether a live entry exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set writes the value for key. A zero expiresAt keeps the entry until
	// deleted.
	Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
