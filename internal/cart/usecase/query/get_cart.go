package query

import (
	"context"
	"fmt"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
)

// GetCartQuery represents the query for a session's canonical cart.
type GetCartQuery struct {
	DeviceID string

	// Refresh forces a read-through to the authoritative store instead
	// of returning the last republished canonical state.
	Refresh bool
}

// GetCartHandler handles get cart queries.
type GetCartHandler struct {
	sessions *reconciler.Manager
}

// NewGetCartHandler creates a new get cart handler.
func NewGetCartHandler(sessions *reconciler.Manager) *GetCartHandler {
	return &GetCartHandler{sessions: sessions}
}

// Handle executes the get cart query.
func (h *GetCartHandler) Handle(ctx context.Context, q GetCartQuery) (domain.Cart, error) {
	if q.DeviceID == "" {
		return domain.Cart{}, fmt.Errorf("device id is required")
	}

	rec := h.sessions.Handle(q.DeviceID).Reconciler
	if !q.Refresh {
		return rec.Canonical(), nil
	}
	return rec.Fetch(ctx)
}
