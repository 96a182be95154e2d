package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Principal is the authenticated caller as seen by the services.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type ProductCommand struct {
	Name        string          `json:"name"        validate:"required,max=200"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Capacity    string          `json:"capacity"    validate:"required"`
	Material    string          `json:"material"    validate:"required"`
	Weight      string          `json:"weight"      validate:"required"`
	Dimensions  string          `json:"dimensions"  validate:"required"`
	Color       string          `json:"color"       validate:"required"`
	Features    []string        `json:"features"`
	InStock     bool            `json:"inStock"`
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type RegisterCommand struct {
	Name     string         `json:"name"     validate:"required,max=100"`
	Email    string         `json:"email"    validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	Phone    string         `json:"phone"    validate:"required"`
	Address  models.Address `json:"address"`
}

type LoginCommand struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ShippingCommand struct {
	Name    string `json:"name"    validate:"required"`
	Street  string `json:"street"  validate:"required"`
	City    string `json:"city"    validate:"required"`
	State   string `json:"state"   validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
	Phone   string `json:"phone"   validate:"required"`
}

func (c ShippingCommand) Address() models.ShippingAddress {
	return models.ShippingAddress{
		Name:    c.Name,
		Street:  c.Street,
		City:    c.City,
		State:   c.State,
		ZipCode: c.ZipCode,
		Country: c.Country,
		Phone:   c.Phone,
	}
}

type ContactCommand struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}
