package checkout

import (
	"context"
	"fmt"

	"github.com/punkhazard/creative-furniture/internal/cart/domain"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
	"github.com/punkhazard/creative-furniture/kafka"
	"github.com/punkhazard/creative-furniture/pkg/logger"
)

// Service places orders from a session's canonical cart.
type Service struct {
	sessions  *reconciler.Manager
	client    *Client
	publisher *kafka.Publisher
}

// NewService creates a checkout service. The publisher may be nil when no
// broker is configured; order events are then skipped.
func NewService(sessions *reconciler.Manager, client *Client, publisher *kafka.Publisher) *Service {
	return &Service{sessions: sessions, client: client, publisher: publisher}
}

// PlaceOrder submits the session's cart as an order. Checkout requires an
// authenticated session. On success the cart is cleared and an order
// placed event is published; for external payment methods the placement
// carries the provider redirect URL.
func (s *Service) PlaceOrder(ctx context.Context, deviceID string, address Address, paymentMethod string) (*Placement, error) {
	h := s.sessions.Handle(deviceID)

	token, ok := h.Session.Token()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	cart, err := h.Reconciler.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for checkout: %w", err)
	}
	if cart.IsEmpty() {
		return nil, fmt.Errorf("cart is empty")
	}

	items := make([]OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	var placement *Placement
	if paymentMethod == "paystack" {
		placement, err = s.client.InitPaystack(ctx, token, items, address, cart.Total())
	} else {
		placement, err = s.client.Place(ctx, token, items, address)
	}
	if err != nil {
		return nil, err
	}

	// The order now owns the lines; a failed clear leaves a stale cart
	// but never a lost order.
	if _, err := h.Reconciler.Clear(ctx); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("order_id", placement.Order.ID).
			Msg("Failed to clear cart after order placement")
	}

	s.publishOrderPlaced(ctx, deviceID, placement.Order, cart)
	return placement, nil
}

// Order fetches one order for the confirmation page.
func (s *Service) Order(ctx context.Context, deviceID, orderID string) (*Order, error) {
	token, ok := s.sessions.Handle(deviceID).Session.Token()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return s.client.GetOrder(ctx, token, orderID)
}

// Orders fetches the session user's order history.
func (s *Service) Orders(ctx context.Context, deviceID string) ([]Order, error) {
	token, ok := s.sessions.Handle(deviceID).Session.Token()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return s.client.ListOrders(ctx, token)
}

func (s *Service) publishOrderPlaced(ctx context.Context, deviceID string, order *Order, cart domain.Cart) {
	if s.publisher == nil {
		return
	}
	event := kafka.OrderPlacedEvent{
		OrderID:    order.ID,
		DeviceID:   deviceID,
		ItemCount:  cart.Count(),
		TotalPrice: cart.Total(),
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("order_id", order.ID).
			Msg("Failed to publish order placed event")
	}
}
