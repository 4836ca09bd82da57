package command

import (
	"context"
	"fmt"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
)

// IncreaseItemCommand represents the command to raise a line's quantity
// by one.
type IncreaseItemCommand struct {
	DeviceID  string
	ProductID string
}

// IncreaseItemHandler handles increase item commands.
type IncreaseItemHandler struct {
	sessions *reconciler.Manager
}

// NewIncreaseItemHandler creates a new increase item handler.
func NewIncreaseItemHandler(sessions *reconciler.Manager) *IncreaseItemHandler {
	return &IncreaseItemHandler{sessions: sessions}
}

// Handle executes the increase item command.
func (h *IncreaseItemHandler) Handle(ctx context.Context, cmd IncreaseItemCommand) (domain.Cart, error) {
	if cmd.DeviceID == "" {
		return domain.Cart{}, fmt.Errorf("device id is required")
	}
	if cmd.ProductID == "" {
		return domain.Cart{}, fmt.Errorf("product id is required")
	}

	rec := h.sessions.Handle(cmd.DeviceID).Reconciler
	return rec.Increase(ctx, cmd.ProductID)
}

// DecreaseItemCommand represents the command to lower a line's quantity
// by one. Quantity floors at 1; removal is a distinct command.
type DecreaseItemCommand struct {
	DeviceID  string
	ProductID string
}

// DecreaseItemHandler handles decrease item commands.
type DecreaseItemHandler struct {
	sessions *reconciler.Manager
}

// NewDecreaseItemHandler creates a new decrease item handler.
func NewDecreaseItemHandler(sessions *reconciler.Manager) *DecreaseItemHandler {
	return &DecreaseItemHandler{sessions: sessions}
}

// Handle executes the decrease item command.
func (h *DecreaseItemHandler) Handle(ctx context.Context, cmd DecreaseItemCommand) (domain.Cart, error) {
	if cmd.DeviceID == "" {
		return domain.Cart{}, fmt.Errorf("device id is required")
	}
	if cmd.ProductID == "" {
		return domain.Cart{}, fmt.Errorf("product id is required")
	}

	rec := h.sessions.Handle(cmd.DeviceID).Reconciler
	return rec.Decrease(ctx, cmd.ProductID)
}
