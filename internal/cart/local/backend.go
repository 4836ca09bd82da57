// Package local implements the anonymous-session cart store: a single
// keyed record holding a JSON-serialized array of cart lines. Absence of
// the record is distinct from an empty array; only Clear deletes the key.
package local

import (
	"context"
	"errors"
)

// ErrNoRecord is returned by a Backend when the key has never been
// written (or was deleted by Clear).
var ErrNoRecord = errors.New("no persisted cart record")

// Backend is the durable keyed storage behind the store. Implementations
// must report a missing key as ErrNoRecord, never as an empty value.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
