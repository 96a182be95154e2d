// Package cart holds the in-progress order of one browser session.
package cart

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps one line so that price times quantity stays well inside
// the order amount column.
const MaxQuantity = 1000

var (
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrQuantityTooLarge = errors.New("quantity exceeds the per-line limit")
)

// LineItem is a snapshot of product fields taken when the product was first
// added. Later catalog edits do not touch it.
type LineItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	Capacity  string          `json:"capacity"`
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is keyed by product id: at most one line per product.
// Version increases on every mutation that changes the contents.
type Cart struct {
	ID      uuid.UUID  `json:"id"`
	Items   []LineItem `json:"items"`
	Version int64      `json:"version"`
}

func (c *Cart) Find(productID uuid.UUID) (int, bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i, true
		}
	}
	return -1, false
}

// Add merges item into the cart. An existing line keeps its snapshot and only
// gains quantity.
func (c *Cart) Add(item LineItem) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if item.Quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	if i, ok := c.Find(item.ProductID); ok {
		if c.Items[i].Quantity > MaxQuantity-item.Quantity {
			return ErrQuantityTooLarge
		}
		c.Items[i].Quantity += item.Quantity
	} else {
		c.Items = append(c.Items, item)
	}
	c.touch()
	return nil
}

// Update sets the quantity of a line, removing it when quantity <= 0.
// Quantities above MaxQuantity are clamped to it.
// It reports whether the cart changed.
func (c *Cart) Update(productID uuid.UUID, quantity int) bool {
	i, ok := c.Find(productID)
	if !ok {
		return false
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}
	if quantity <= 0 {
		return c.Remove(productID)
	}
	if c.Items[i].Quantity == quantity {
		return false
	}
	c.Items[i].Quantity = quantity
	c.touch()
	return true
}

func (c *Cart) Remove(productID uuid.UUID) bool {
	i, ok := c.Find(productID)
	if !ok {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.touch()
	return true
}

// Clear empties the cart and starts a new identity for the next one.
func (c *Cart) Clear() {
	c.Items = nil
	c.ID = uuid.Nil
	c.Version = 0
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Items {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count is the number of distinct lines.
func (c Cart) Count() int {
	return len(c.Items)
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CheckoutKey identifies this exact cart content. It changes after any
// mutation and after a clear.
func (c Cart) CheckoutKey() string {
	return c.ID.String() + ":" + strconv.FormatInt(c.Version, 10)
}

func (c *Cart) touch() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Version++
}
