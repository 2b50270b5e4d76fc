// Package store provides the shared document store the game coordinates
// through: a key-path tree supporting read-once fetch, atomic field merge,
// atomic read-modify-write transactions with retry under contention, and a
// subscription that pushes the full document on every change.
package store

import (
	"context"
	"errors"
)

// Document is a raw JSON object node in the tree.
type Document = map[string]interface{}

// ErrAbort is returned by a transaction func to leave the stored value
// untouched.
var ErrAbort = errors.New("store: transaction aborted")

// TxFunc receives the current value at a path (nil when absent) and returns
// the value to write. Returning ErrAbort, or a nil value with nil error,
// aborts without writing.
type TxFunc func(current interface{}) (interface{}, error)

// Client is the store interface every game component depends on. Paths are
// slash-separated, e.g. "rooms/123456/players/ana/score". Writes through
// Transaction are atomic against concurrent conflicting writers; Update is a
// plain atomic merge for uncontended fields.
type Client interface {
	// Get fetches the value at path once. Absent paths yield (nil, nil).
	Get(ctx context.Context, path string) (interface{}, error)

	// Update merges fields into the object at path, creating it if absent.
	Update(ctx context.Context, path string, fields Document) error

	// Transaction runs fn against the latest value at path and writes the
	// result, retrying when a concurrent writer invalidates the read.
	Transaction(ctx context.Context, path string, fn TxFunc) error

	// Subscribe delivers the current document containing path immediately,
	// then the full document on every subsequent change. Snapshots are
	// monotonic per subscriber. The returned func cancels the subscription.
	Subscribe(ctx context.Context, path string, fn func(interface{})) (func(), error)

	// Now returns the store's own millisecond timestamp, shared by all
	// clients regardless of their local clocks.
	Now(ctx context.Context) (int64, error)
}
