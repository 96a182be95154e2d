package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/cartstore"
	"github.com/Skotchmaster/storefront/internal/models"
)

// CartRepository stores one cart per session id.
type CartRepository interface {
	Get(ctx context.Context, sid string) (cart.Cart, error)
	Update(ctx context.Context, sid string, fn func(*cart.Cart) error) (cart.Cart, error)
	ClearIfVersion(ctx context.Context, sid string, version int64) (bool, error)
	Delete(ctx context.Context, sid string) error
}

type ProductLookup interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// CartService is the cart of the current session. Add, Update and Remove
// return the number of lines after the change.
type CartService interface {
	Add(ctx context.Context, sid string, productID uuid.UUID, quantity int) (int, error)
	Update(ctx context.Context, sid string, productID uuid.UUID, quantity int) (int, error)
	Remove(ctx context.Context, sid string, productID uuid.UUID) (int, error)
	Total(ctx context.Context, sid string) (decimal.Decimal, error)
	Clear(ctx context.Context, sid string) error
	Get(ctx context.Context, sid string) (cart.Cart, error)
}

type SessionCart struct {
	Carts    CartRepository
	Products ProductLookup
}

func NewCartService(carts CartRepository, products ProductLookup) *SessionCart {
	return &SessionCart{Carts: carts, Products: products}
}

var _ CartService = (*SessionCart)(nil)

func (s *SessionCart) Add(ctx context.Context, sid string, productID uuid.UUID, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, FieldInvalid("quantity", "must be greater than 0")
	}
	if quantity > cart.MaxQuantity {
		return 0, quantityTooLarge()
	}

	p, err := s.Products.GetProduct(ctx, productID)
	if err != nil {
		return 0, notFound("product", err)
	}

	line := cart.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		Image:     p.Image,
		Capacity:  p.Capacity,
	}
	c, err := s.Carts.Update(ctx, sid, func(c *cart.Cart) error { return c.Add(line) })
	if err != nil {
		return 0, cartErr(err)
	}
	return c.Count(), nil
}

func (s *SessionCart) Update(ctx context.Context, sid string, productID uuid.UUID, quantity int) (int, error) {
	if quantity > cart.MaxQuantity {
		return 0, quantityTooLarge()
	}
	c, err := s.Carts.Update(ctx, sid, func(c *cart.Cart) error {
		c.Update(productID, quantity)
		return nil
	})
	if err != nil {
		return 0, cartErr(err)
	}
	return c.Count(), nil
}

func (s *SessionCart) Remove(ctx context.Context, sid string, productID uuid.UUID) (int, error) {
	c, err := s.Carts.Update(ctx, sid, func(c *cart.Cart) error {
		c.Remove(productID)
		return nil
	})
	if err != nil {
		return 0, cartErr(err)
	}
	return c.Count(), nil
}

func (s *SessionCart) Total(ctx context.Context, sid string) (decimal.Decimal, error) {
	c, err := s.Carts.Get(ctx, sid)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Total(), nil
}

func (s *SessionCart) Clear(ctx context.Context, sid string) error {
	return s.Carts.Delete(ctx, sid)
}

func (s *SessionCart) Get(ctx context.Context, sid string) (cart.Cart, error) {
	return s.Carts.Get(ctx, sid)
}

func quantityTooLarge() error {
	return FieldInvalid("quantity", fmt.Sprintf("cannot exceed %d per product", cart.MaxQuantity))
}

func cartErr(err error) error {
	if errors.Is(err, cart.ErrQuantityTooLarge) {
		return quantityTooLarge()
	}
	if errors.Is(err, cartstore.ErrConcurrentUpdate) {
		return fmt.Errorf("%v: %w", err, ErrCartChanged)
	}
	return err
}
