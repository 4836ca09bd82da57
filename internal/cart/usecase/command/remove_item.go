package command

import (
	"context"
	"fmt"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
)

// RemoveItemCommand represents the command to delete a line entirely,
// regardless of quantity.
type RemoveItemCommand struct {
	DeviceID  string
	ProductID string
}

// RemoveItemHandler handles remove item commands.
type RemoveItemHandler struct {
	sessions *reconciler.Manager
}

// NewRemoveItemHandler creates a new remove item handler.
func NewRemoveItemHandler(sessions *reconciler.Manager) *RemoveItemHandler {
	return &RemoveItemHandler{sessions: sessions}
}

// Handle executes the remove item command.
func (h *RemoveItemHandler) Handle(ctx context.Context, cmd RemoveItemCommand) (domain.Cart, error) {
	if cmd.DeviceID == "" {
		return domain.Cart{}, fmt.Errorf("device id is required")
	}
	if cmd.ProductID == "" {
		return domain.Cart{}, fmt.Errorf("product id is required")
	}

	rec := h.sessions.Handle(cmd.DeviceID).Reconciler
	return rec.Remove(ctx, cmd.ProductID)
}
