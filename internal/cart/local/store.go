package local

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/pkg/logger"
)

// Store maintains the cart lines of one anonymous session under a single
// storage key. The store persists after every mutation so a restart does
// not lose the cart.
type Store struct {
	backend Backend
	key     string
}

// NewStore creates a store bound to the record key for one session.
func NewStore(backend Backend, key string) *Store {
	return &Store{backend: backend, key: key}
}

// Load reads the persisted lines. A missing record yields an empty cart.
// A corrupt record also yields an empty cart with a logged diagnostic;
// corruption never propagates as an error.
func (s *Store) Load(ctx context.Context) ([]domain.CartLine, error) {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if err == ErrNoRecord {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cart record: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		corruption := &domain.PersistenceCorruption{Key: s.key, Err: err}
		logger.Warn(ctx).
			Str("key", s.key).
			Err(corruption).
			Msg("Discarding corrupt local cart record")
		return nil, nil
	}
	return lines, nil
}

// Add merges a line into the cart: quantities sum on an existing line for
// the same product, otherwise the line is appended.
func (s *Store) Add(ctx context.Context, line domain.CartLine) ([]domain.CartLine, error) {
	cart, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	cart.Add(line)
	if err := s.persist(ctx, cart.Lines); err != nil {
		return nil, err
	}
	return cart.Lines, nil
}

// Increase adjusts the line's quantity by +1. Missing products are a
// no-op.
func (s *Store) Increase(ctx context.Context, productID string) ([]domain.CartLine, error) {
	cart, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := cart.Find(productID); i >= 0 {
		cart.Lines[i].Quantity++
	}
	if err := s.persist(ctx, cart.Lines); err != nil {
		return nil, err
	}
	return cart.Lines, nil
}

// Decrease adjusts the line's quantity by -1, flooring at 1. Decreasing
// to zero is disallowed; removal is a distinct explicit action.
func (s *Store) Decrease(ctx context.Context, productID string) ([]domain.CartLine, error) {
	cart, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := cart.Find(productID); i >= 0 && cart.Lines[i].Quantity > 1 {
		cart.Lines[i].Quantity--
	}
	if err := s.persist(ctx, cart.Lines); err != nil {
		return nil, err
	}
	return cart.Lines, nil
}

// Remove deletes the line entirely regardless of quantity.
func (s *Store) Remove(ctx context.Context, productID string) ([]domain.CartLine, error) {
	cart, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)
	if err := s.persist(ctx, cart.Lines); err != nil {
		return nil, err
	}
	return cart.Lines, nil
}

// Clear empties the cart and deletes the persisted record itself, so a
// cleared cart is indistinguishable from one that was never initialized.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to delete cart record: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) (domain.Cart, error) {
	lines, err := s.Load(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{Lines: lines}, nil
}

func (s *Store) persist(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart record: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write cart record: %w", err)
	}
	return nil
}
