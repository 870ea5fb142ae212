// Package store is a small transactional key-value store for survey state.
// Each top-level key ("root") holds an arbitrary JSON-encodable value. One
// store handle is opened per process in cmd/survey and threaded through the
// survey flow; transactions against a handle are serialized.
package store

import (
	"context"
	"errors"
)

// ErrClosed is returned by Transaction after Close.
var ErrClosed = errors.New("store: closed")

// Tx is the read/write view of the store inside one transaction. A Tx must
// not be used after the function passed to Transaction returns.
type Tx interface {
	// Fetch decodes the value under key into dst. When key is absent dst is
	// left untouched and Fetch returns false, so callers pre-fill dst with
	// the default they want.
	Fetch(key string, dst any) (bool, error)
	// Put stores value under key, replacing any previous value.
	Put(key string, value any) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Roots lists every top-level key in sorted order.
	Roots() ([]string, error)
}

// Store runs transactions against persisted roots.
type Store interface {
	// Transaction runs fn with exclusive access to the store. All mutations
	// made through tx are committed atomically when fn returns nil and
	// discarded when it returns an error.
	Transaction(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Opener opens (creating if needed) the store at path.
type Opener func(ctx context.Context, path string) (Store, error)
