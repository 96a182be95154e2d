package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/telemetry"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CheckoutService struct {
	Repo   *repo.GormRepo
	Carts  CartRepository
	Events events.Publisher
}

// Preview returns the cart that would be ordered together with its total.
func (s *CheckoutService) Preview(ctx context.Context, sid string) (cart.Cart, decimal.Decimal, error) {
	c, err := s.Carts.Get(ctx, sid)
	if err != nil {
		return cart.Cart{}, decimal.Zero, err
	}
	if c.IsEmpty() {
		return c, decimal.Zero, ErrEmptyCart
	}
	return c, c.Total(), nil
}

// Checkout turns the session cart into an order and then clears the cart.
//
// The order carries the cart's CheckoutKey under a unique constraint, so a
// retry of the same cart content returns the order already written instead
// of creating a second one. The cart is cleared only if nobody changed it
// since it was read.
func (s *CheckoutService) Checkout(ctx context.Context, sid string, p Principal, cmd ShippingCommand) (*models.Order, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "checkout")
	defer span.End()

	l := logging.FromContext(ctx).With("svc", "checkout")

	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	c, err := s.Carts.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	key := c.CheckoutKey()
	span.SetAttributes(attribute.String("checkout.key", key), attribute.Int("cart.lines", c.Count()))

	existing, err := s.Repo.GetOrderByCheckoutKey(ctx, key)
	switch {
	case err == nil:
		if existing.UserID != p.UserID {
			return nil, ErrCartOrdered
		}
		l.Info("checkout_replayed", "order_id", existing.ID)
		s.clear(ctx, sid, c)
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	order := &models.Order{
		UserID:          p.UserID,
		Items:           orderItems(c),
		TotalAmount:     c.Total(),
		ShippingAddress: cmd.Address(),
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		CheckoutKey:     key,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		if existing, lookupErr := s.Repo.GetOrderByCheckoutKey(ctx, key); lookupErr == nil && existing.UserID == p.UserID {
			s.clear(ctx, sid, c)
			return existing, nil
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.clear(ctx, sid, c)

	if s.Events != nil {
		if err := s.Events.Publish(ctx, events.TopicOrders, order.ID.String(), map[string]any{
			"type":        "order_created",
			"orderId":     order.ID,
			"userId":      order.UserID,
			"totalAmount": order.TotalAmount.StringFixed(2),
			"items":       len(order.Items),
		}); err != nil {
			l.Warn("publish_failed", "topic", events.TopicOrders, "order_id", order.ID, "error", err)
		}
	}

	l.Info("checkout_success", "order_id", order.ID, "total", order.TotalAmount.StringFixed(2))
	return order, nil
}

func (s *CheckoutService) clear(ctx context.Context, sid string, c cart.Cart) {
	l := logging.FromContext(ctx).With("svc", "checkout")

	cleared, err := s.Carts.ClearIfVersion(ctx, sid, c.Version)
	if err != nil {
		l.Error("cart_clear_failed", "reason", "order stands, cart kept", "error", err)
		return
	}
	if !cleared {
		l.Warn("cart_clear_skipped", "reason", "cart changed during checkout")
	}
}

// GetOrder returns an order visible to p: its owner or an admin.
func (s *CheckoutService) GetOrder(ctx context.Context, id uuid.UUID, p Principal) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound("order", err)
	}
	if order.UserID != p.UserID && !p.IsAdmin() {
		return nil, fmt.Errorf("order: %w", ErrNotFound)
	}
	return order, nil
}

func (s *CheckoutService) History(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.OrdersByUser(ctx, userID)
}

func orderItems(c cart.Cart) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.Items))
	for _, l := range c.Items {
		items = append(items, models.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}
	return items
}
