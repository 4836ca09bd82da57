package command

import (
	"context"
	"fmt"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
)

// ClearCartCommand represents the command to empty a session's cart.
type ClearCartCommand struct {
	DeviceID string
}

// ClearCartHandler handles clear cart commands.
type ClearCartHandler struct {
	sessions *reconciler.Manager
}

// NewClearCartHandler creates a new clear cart handler.
func NewClearCartHandler(sessions *reconciler.Manager) *ClearCartHandler {
	return &ClearCartHandler{sessions: sessions}
}

// Handle executes the clear cart command.
func (h *ClearCartHandler) Handle(ctx context.Context, cmd ClearCartCommand) (domain.Cart, error) {
	if cmd.DeviceID == "" {
		return domain.Cart{}, fmt.Errorf("device id is required")
	}

	rec := h.sessions.Handle(cmd.DeviceID).Reconciler
	return rec.Clear(ctx)
}
