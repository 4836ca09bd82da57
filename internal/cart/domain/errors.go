package domain

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when a remote cart operation is attempted
// with no session token. It is never retried automatically.
var ErrUnauthenticated = errors.New("no session token present")

// RemoteCartError means the server was reachable and responded with a
// failure. Message carries the server-provided text when available.
type RemoteCartError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RemoteCartError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote cart %s failed: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("remote cart %s failed with status %d", e.Op, e.StatusCode)
}

// NetworkError means the request never completed. Distinct from
// RemoteCartError so fetch can fall back to local contents.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("remote cart %s: request did not complete: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// PersistenceCorruption means the persisted local record failed to parse.
// It is recovered locally (empty cart) and logged, never surfaced to
// callers of the store.
type PersistenceCorruption struct {
	Key string
	Err error
}

func (e *PersistenceCorruption) Error() string {
	return fmt.Sprintf("persisted cart record %q is corrupt: %v", e.Key, e.Err)
}

func (e *PersistenceCorruption) Unwrap() error { return e.Err }

// MergeFailure wraps the error from a failed login-time merge. The local
// cart is preserved and login proceeds; the failure is logged, not
// blocking.
type MergeFailure struct {
	Err error
}

func (e *MergeFailure) Error() string {
	return fmt.Sprintf("cart merge failed: %v", e.Err)
}

func (e *MergeFailure) Unwrap() error { return e.Err }
