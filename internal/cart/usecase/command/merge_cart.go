package command

import (
	"context"
	"fmt"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
)

// MergeCartCommand represents the command to merge a session's local
// lines into the remote cart. Used as the explicit retry after a failed
// login-time merge.
type MergeCartCommand struct {
	DeviceID string
}

// MergeCartHandler handles merge cart commands.
type MergeCartHandler struct {
	sessions *reconciler.Manager
}

// NewMergeCartHandler creates a new merge cart handler.
func NewMergeCartHandler(sessions *reconciler.Manager) *MergeCartHandler {
	return &MergeCartHandler{sessions: sessions}
}

// Handle executes the merge cart command.
func (h *MergeCartHandler) Handle(ctx context.Context, cmd MergeCartCommand) (domain.Cart, error) {
	if cmd.DeviceID == "" {
		return domain.Cart{}, fmt.Errorf("device id is required")
	}

	rec := h.sessions.Handle(cmd.DeviceID).Reconciler
	return rec.Merge(ctx)
}
