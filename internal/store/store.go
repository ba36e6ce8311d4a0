package store

import (
	"context"
	"errors"
)

// ErrNoRecord reports a key with no record bound. Absence is a normal,
// checked condition for every caller; it never indicates corruption.
var ErrNoRecord = errors.New("record not found")

// Store is the durable record substrate: typed records addressed by the
// closed key set in key.go. Values are JSON-marshaled on write and
// unmarshaled into dest on read.
//
// Atomic runs fn against a view of the store where either every write commits
// or none do. Escrow operations run their whole read-check-write sequence
// inside one Atomic call, which is what makes a single invocation atomic end
// to end.
type Store interface {
	Get(ctx context.Context, key Key, dest any) error
	Set(ctx context.Context, key Key, value any) error
	Has(ctx context.Context, key Key) (bool, error)
	Remove(ctx context.Context, key Key) error
	ListKeys(ctx context.Context, kind Kind) ([]Key, error)
	Atomic(ctx context.Context, fn func(Store) error) error
}
