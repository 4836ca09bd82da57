//go:build wireinject
// +build wireinject

package cart

import (
	"github.com/google/wire"

	carthttp "github.com/punkhazard/creative-furniture/internal/cart/delivery/http"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
	"github.com/punkhazard/creative-furniture/internal/cart/usecase/command"
	"github.com/punkhazard/creative-furniture/internal/cart/usecase/query"
)

// Command Handlers Providers
func ProvideAddItemHandler(sessions *reconciler.Manager) *command.AddItemHandler {
	return command.NewAddItemHandler(sessions)
}

func ProvideIncreaseItemHandler(sessions *reconciler.Manager) *command.IncreaseItemHandler {
	return command.NewIncreaseItemHandler(sessions)
}

func ProvideDecreaseItemHandler(sessions *reconciler.Manager) *command.DecreaseItemHandler {
	return command.NewDecreaseItemHandler(sessions)
}

func ProvideRemoveItemHandler(sessions *reconciler.Manager) *command.RemoveItemHandler {
	return command.NewRemoveItemHandler(sessions)
}

func ProvideClearCartHandler(sessions *reconciler.Manager) *command.ClearCartHandler {
	return command.NewClearCartHandler(sessions)
}

func ProvideMergeCartHandler(sessions *reconciler.Manager) *command.MergeCartHandler {
	return command.NewMergeCartHandler(sessions)
}

// Query Handlers Providers
func ProvideGetCartHandler(sessions *reconciler.Manager) *query.GetCartHandler {
	return query.NewGetCartHandler(sessions)
}

// Wire sets
var CommandHandlerSet = wire.NewSet(
	ProvideAddItemHandler,
	ProvideIncreaseItemHandler,
	ProvideDecreaseItemHandler,
	ProvideRemoveItemHandler,
	ProvideClearCartHandler,
	ProvideMergeCartHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetCartHandler,
)

var AllHandlersSet = wire.NewSet(
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes the cart handler with all dependencies
func InitializeHandler(sessions *reconciler.Manager) (*carthttp.CartHandler, error) {
	wire.Build(
		AllHandlersSet,
		carthttp.NewCartHandlerWithDI,
	)
	return nil, nil
}
