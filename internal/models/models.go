package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type MessageStatus string

const (
	MessageUnread   MessageStatus = "unread"
	MessageRead     MessageStatus = "read"
	MessageResolved MessageStatus = "resolved"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageUnread, MessageRead, MessageResolved:
		return true
	}
	return false
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	Name        string          `gorm:"not null"                    json:"name"`
	Description string          `gorm:"not null"                    json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Capacity    string          `gorm:"not null"                    json:"capacity"`
	Material    string          `gorm:"not null"                    json:"material"`
	Weight      string          `gorm:"not null"                    json:"weight"`
	Dimensions  string          `gorm:"not null"                    json:"dimensions"`
	Color       string          `gorm:"not null"                    json:"color"`
	Features    []string        `gorm:"serializer:json"             json:"features"`
	InStock     bool            `gorm:"not null"                    json:"inStock"`
	Image       string          `json:"image"`
	CreatedAt   time.Time       `gorm:"index"                       json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name         string    `gorm:"not null"                  json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Phone        string    `json:"phone"`
	Address      Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Role         string    `gorm:"not null"                  json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// OrderItem is a copy of a cart line taken at checkout; it never changes
// after the order is written.
type OrderItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type ShippingAddress struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null"    json:"userId"`
	Items           []OrderItem     `gorm:"serializer:json;not null"    json:"items"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	Status          OrderStatus     `gorm:"not null;index"              json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"not null;index"              json:"paymentStatus"`
	CheckoutKey     string          `gorm:"uniqueIndex;not null"        json:"-"`
	CreatedAt       time.Time       `gorm:"index"                       json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	return nil
}

type Message struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string        `gorm:"not null"             json:"name"`
	Email     string        `gorm:"not null"             json:"email"`
	Message   string        `gorm:"type:text;not null"   json:"message"`
	Status    MessageStatus `gorm:"not null;index"       json:"status"`
	CreatedAt time.Time     `gorm:"index"                json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = MessageUnread
	}
	return nil
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{&Product{}, &User{}, &Order{}, &Message{}}
}

func init() {
	// Money is rendered as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}
