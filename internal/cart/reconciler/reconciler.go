// Package reconciler routes every cart intent to the local or remote
// store based on the session signal, performs the login-time merge of
// anonymous-session lines into the server cart, and republishes the
// canonical cart state the storefront renders.
package reconciler

import (
	"context"
	"errors"
	"sync"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/pkg/logger"
)

// State is the reconciler's routing state, selected solely by the
// session signal.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Signal exposes the session token. Presence of a token is the only
// input to the routing decision.
type Signal interface {
	Token() (string, bool)
}

// Reconciler owns the cart state machine for one session. Exactly one of
// the local store or the remote cart is authoritative at any instant; the
// other is inert. Operations against one reconciler are serialized; the
// server returns full authoritative state on every mutation, so ordering
// across sessions needs no coordination (last response wins).
type Reconciler struct {
	mu     sync.Mutex
	local  domain.LocalStore
	remote domain.RemoteCart
	signal Signal

	canonical domain.Cart
}

// New creates a reconciler over an already-scoped local store.
func New(local domain.LocalStore, remote domain.RemoteCart, signal Signal) *Reconciler {
	return &Reconciler{local: local, remote: remote, signal: signal}
}

// State returns the current routing state.
func (r *Reconciler) State() State {
	if _, ok := r.signal.Token(); ok {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Canonical returns a snapshot of the cart state all UI components
// render. Reads during an in-flight mutation observe the pre-mutation
// value.
func (r *Reconciler) Canonical() domain.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canonical.Clone()
}

// Fetch refreshes the canonical cart from whichever store is
// authoritative. For authenticated sessions a failed remote read degrades
// to the local store's last-persisted contents; the cart display never
// hard-fails on a transient read.
func (r *Reconciler) Fetch(ctx context.Context) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.signal.Token()
	if !ok {
		return r.refreshFromLocal(ctx)
	}

	lines, err := r.remote.FetchAll(ctx, token)
	if err != nil {
		logger.Warn(ctx).
			Err(err).
			Msg("Remote cart fetch failed, falling back to local contents")
		return r.refreshFromLocal(ctx)
	}
	return r.republish(lines), nil
}

// Add routes an add intent. Quantity defaults to 1.
func (r *Reconciler) Add(ctx context.Context, line domain.CartLine) (domain.Cart, error) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	return r.mutate(ctx,
		func(ctx context.Context) ([]domain.CartLine, error) {
			return r.local.Add(ctx, line)
		},
		func(ctx context.Context, token string) ([]domain.CartLine, error) {
			return r.remote.Add(ctx, token, line.ProductID, line.Quantity)
		},
	)
}

// Increase routes an increase intent.
func (r *Reconciler) Increase(ctx context.Context, productID string) (domain.Cart, error) {
	return r.mutate(ctx,
		func(ctx context.Context) ([]domain.CartLine, error) {
			return r.local.Increase(ctx, productID)
		},
		func(ctx context.Context, token string) ([]domain.CartLine, error) {
			return r.remote.Increase(ctx, token, productID)
		},
	)
}

// Decrease routes a decrease intent.
func (r *Reconciler) Decrease(ctx context.Context, productID string) (domain.Cart, error) {
	return r.mutate(ctx,
		func(ctx context.Context) ([]domain.CartLine, error) {
			return r.local.Decrease(ctx, productID)
		},
		func(ctx context.Context, token string) ([]domain.CartLine, error) {
			return r.remote.Decrease(ctx, token, productID)
		},
	)
}

// Remove routes a remove intent.
func (r *Reconciler) Remove(ctx context.Context, productID string) (domain.Cart, error) {
	return r.mutate(ctx,
		func(ctx context.Context) ([]domain.CartLine, error) {
			return r.local.Remove(ctx, productID)
		},
		func(ctx context.Context, token string) ([]domain.CartLine, error) {
			return r.remote.Remove(ctx, token, productID)
		},
	)
}

// Clear routes a clear intent.
func (r *Reconciler) Clear(ctx context.Context) (domain.Cart, error) {
	return r.mutate(ctx,
		func(ctx context.Context) ([]domain.CartLine, error) {
			if err := r.local.Clear(ctx); err != nil {
				return nil, err
			}
			return nil, nil
		},
		func(ctx context.Context, token string) ([]domain.CartLine, error) {
			return r.remote.Clear(ctx, token)
		},
	)
}

// Login runs the Anonymous -> Authenticated transition after the session
// token has been installed. Local lines are merged into the server cart
// in one batched request; on success the local store is cleared so the
// lines are never replayed on a later login. A failed merge preserves the
// local store, is reported as a *domain.MergeFailure, and does not block
// the login: the remote cart is still fetched and becomes canonical.
func (r *Reconciler) Login(ctx context.Context) (domain.Cart, error) {
	r.mu.Lock()
	merged, mergeErr := r.mergeLocked(ctx)
	if merged {
		cart := r.canonical.Clone()
		r.mu.Unlock()
		return cart, nil
	}
	r.mu.Unlock()

	cart, err := r.Fetch(ctx)
	if err != nil {
		return cart, err
	}
	return cart, mergeErr
}

// Merge re-runs the merge of local lines into the remote cart. Exposed so
// a session whose login-time merge failed can retry explicitly.
func (r *Reconciler) Merge(ctx context.Context) (domain.Cart, error) {
	r.mu.Lock()
	merged, mergeErr := r.mergeLocked(ctx)
	if merged {
		cart := r.canonical.Clone()
		r.mu.Unlock()
		return cart, nil
	}
	r.mu.Unlock()

	if mergeErr != nil {
		return r.Canonical(), mergeErr
	}
	return r.Fetch(ctx)
}

// mergeLocked runs the merge protocol. It reports whether a merge request
// completed and made the server's returned cart canonical; an empty local
// snapshot is (false, nil), meaning the caller should just fetch.
func (r *Reconciler) mergeLocked(ctx context.Context) (bool, error) {
	token, ok := r.signal.Token()
	if !ok {
		return false, domain.ErrUnauthenticated
	}

	snapshot, err := r.local.Load(ctx)
	if err != nil {
		return false, &domain.MergeFailure{Err: err}
	}
	if len(snapshot) == 0 {
		return false, nil
	}

	lines, err := r.remote.Merge(ctx, token, domain.MergeItems(snapshot))
	if err != nil {
		// Local lines survive so nothing is lost; the user keeps
		// shopping and may retry the merge.
		failure := &domain.MergeFailure{Err: err}
		logger.Error(ctx).
			Err(failure).
			Int("local_lines", len(snapshot)).
			Msg("Cart merge failed, preserving local cart")
		return false, failure
	}

	if err := r.local.Clear(ctx); err != nil {
		logger.Error(ctx).
			Err(err).
			Msg("Failed to clear local cart after merge")
	}
	r.canonical = domain.Cart{Lines: lines}

	logger.Info(ctx).
		Int("merged_lines", len(snapshot)).
		Int("cart_lines", len(lines)).
		Msg("Local cart merged into remote cart")
	return true, nil
}

// Logout runs the Authenticated -> Anonymous transition. The remote cart
// is abandoned as canonical (it stays server-side, untouched) and the
// local store resumes from whatever was last persisted.
func (r *Reconciler) Logout(ctx context.Context) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshFromLocal(ctx)
}

// mutate is the single routing decision every mutating intent goes
// through. Remote failures leave the canonical state untouched and are
// surfaced typed to the caller; while authenticated the local store is
// never mutated as a fallback.
func (r *Reconciler) mutate(
	ctx context.Context,
	localOp func(ctx context.Context) ([]domain.CartLine, error),
	remoteOp func(ctx context.Context, token string) ([]domain.CartLine, error),
) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, authenticated := r.signal.Token()

	var lines []domain.CartLine
	var err error
	if authenticated {
		lines, err = remoteOp(ctx, token)
	} else {
		lines, err = localOp(ctx)
	}
	if err != nil {
		return r.canonical.Clone(), err
	}
	return r.republish(lines), nil
}

func (r *Reconciler) refreshFromLocal(ctx context.Context) (domain.Cart, error) {
	lines, err := r.local.Load(ctx)
	if err != nil {
		return r.canonical.Clone(), err
	}
	return r.republish(lines), nil
}

// republish replaces the canonical state in full with the given list.
func (r *Reconciler) republish(lines []domain.CartLine) domain.Cart {
	r.canonical = domain.Cart{Lines: lines}
	return r.canonical.Clone()
}

// IsMergeFailure reports whether err is a merge failure, which callers
// treat as non-blocking.
func IsMergeFailure(err error) bool {
	var mf *domain.MergeFailure
	return errors.As(err, &mf)
}
