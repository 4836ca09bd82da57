package command

import (
	"context"
	"fmt"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
)

// AddItemCommand represents the command to add a product to a session's
// cart.
type AddItemCommand struct {
	DeviceID  string
	ProductID string
	Name      string
	Price     float64
	Image     string
	Quantity  int
}

// AddItemHandler handles add item commands.
type AddItemHandler struct {
	sessions *reconciler.Manager
}

// NewAddItemHandler creates a new add item handler.
func NewAddItemHandler(sessions *reconciler.Manager) *AddItemHandler {
	return &AddItemHandler{sessions: sessions}
}

// Handle executes the add item command.
func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) (domain.Cart, error) {
	if cmd.DeviceID == "" {
		return domain.Cart{}, fmt.Errorf("device id is required")
	}
	if cmd.ProductID == "" {
		return domain.Cart{}, fmt.Errorf("product id is required")
	}
	if cmd.Quantity < 1 {
		cmd.Quantity = 1
	}

	rec := h.sessions.Handle(cmd.DeviceID).Reconciler
	return rec.Add(ctx, domain.CartLine{
		ProductID: cmd.ProductID,
		Name:      cmd.Name,
		Price:     cmd.Price,
		Image:     cmd.Image,
		Quantity:  cmd.Quantity,
	})
}
