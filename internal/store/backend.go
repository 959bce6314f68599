package store

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	KeyDocument  = "aquaFlowData"
	KeySession   = "currentUser"
	KeyLastLogin = "aquaLastLogin"

	recoveryPrefix = KeyDocument + ".recovery."
)

// AnyVersion passed to Backend.Put skips the version check.
const AnyVersion int64 = -1

var (
	// ErrNotFound is returned by Backend.Get when the key is absent.
	ErrNotFound = errors.New("key not found")

	// ErrConflict is returned when a write names a stale version.
	ErrConflict = errors.New("version conflict")

	// ErrUnsupportedSchema is returned when the stored document was written
	// by a newer schema than this build understands.
	ErrUnsupportedSchema = errors.New("unsupported schema version")
)

// Backend is a versioned key-value store.
//
// Versions start at 1 on first write and increase by one on every Put.
// An absent key has version 0, so Put(key, v, 0) creates only if absent.
type Backend interface {
	// Get returns the value and version for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, int64, error)

	// Put stores value if the current version equals expected (or expected
	// is AnyVersion) and returns the new version. Otherwise ErrConflict.
	Put(ctx context.Context, key string, value []byte, expected int64) (int64, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
