package transport

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
)

type ProductRequest struct {
	Name        string      `json:"name"        form:"name"`
	Description string      `json:"description" form:"description"`
	Price       Numeric     `json:"price"       form:"price"`
	Capacity    string      `json:"capacity"    form:"capacity"`
	Material    string      `json:"material"    form:"material"`
	Weight      string      `json:"weight"      form:"weight"`
	Dimensions  string      `json:"dimensions"  form:"dimensions"`
	Color       string      `json:"color"       form:"color"`
	Features    FeatureList `json:"features"    form:"features"`
	InStock     Flag        `json:"inStock"     form:"inStock"`
}

func (r ProductRequest) Command() (service.ProductCommand, error) {
	verr := &service.ValidationError{}

	var price decimal.Decimal
	switch {
	case !r.Price.Set || r.Price.Raw == "":
		verr.Add("price", "is required")
	default:
		p, err := decimal.NewFromString(r.Price.Raw)
		if err != nil {
			verr.Add("price", "must be a number")
		} else {
			price = p
		}
	}

	cmd := service.ProductCommand{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Price:       price,
		Capacity:    strings.TrimSpace(r.Capacity),
		Material:    strings.TrimSpace(r.Material),
		Weight:      strings.TrimSpace(r.Weight),
		Dimensions:  strings.TrimSpace(r.Dimensions),
		Color:       strings.TrimSpace(r.Color),
		Features:    []string(r.Features),
		InStock:     bool(r.InStock),
	}
	if cmd.Features == nil {
		cmd.Features = []string{}
	}
	if len(verr.Fields) > 0 {
		// The service never sees this request, so list its other rejected fields here.
		if err := verr.Merge(service.ValidateProduct(cmd)); err != nil {
			return cmd, err
		}
	}
	return cmd, verr.OrNil()
}

type RegisterRequest struct {
	Name     string `json:"name"     form:"name"`
	Email    string `json:"email"    form:"email"`
	Password string `json:"password,omitempty" form:"password"`
	Phone    string `json:"phone"    form:"phone"`
	Street   string `json:"street,omitempty"  form:"street"`
	City     string `json:"city,omitempty"    form:"city"`
	State    string `json:"state,omitempty"   form:"state"`
	ZipCode  string `json:"zipCode,omitempty" form:"zipCode"`
	Country  string `json:"country,omitempty" form:"country"`
}

func (r RegisterRequest) Command() service.RegisterCommand {
	return service.RegisterCommand{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		Phone:    strings.TrimSpace(r.Phone),
		Address: models.Address{
			Street:  strings.TrimSpace(r.Street),
			City:    strings.TrimSpace(r.City),
			State:   strings.TrimSpace(r.State),
			ZipCode: strings.TrimSpace(r.ZipCode),
			Country: strings.TrimSpace(r.Country),
		},
	}
}

// Echo is the form as sent back to the client, without the password.
func (r RegisterRequest) Echo() RegisterRequest {
	r.Password = ""
	return r
}

type LoginRequest struct {
	Email    string `json:"email"              form:"email"`
	Password string `json:"password,omitempty" form:"password"`
}

func (r LoginRequest) Command() service.LoginCommand {
	return service.LoginCommand{Email: strings.TrimSpace(r.Email), Password: r.Password}
}

type CartRequest struct {
	ProductID string  `json:"productId" form:"productId"`
	Quantity  Numeric `json:"quantity"  form:"quantity"`
}

func (r CartRequest) Product() (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(r.ProductID))
	if err != nil {
		return uuid.Nil, service.FieldInvalid("productId", "must be a valid product id")
	}
	return id, nil
}

// AddQuantity defaults to 1 when the quantity is omitted.
func (r CartRequest) AddQuantity() (int, error) {
	q, ok, err := r.Quantity.Int()
	if err != nil {
		return 0, service.FieldInvalid("quantity", "must be a whole number")
	}
	if !ok {
		return 1, nil
	}
	return q, nil
}

func (r CartRequest) UpdateQuantity() (int, error) {
	q, ok, err := r.Quantity.Int()
	if err != nil {
		return 0, service.FieldInvalid("quantity", "must be a whole number")
	}
	if !ok {
		return 0, service.FieldInvalid("quantity", "is required")
	}
	return q, nil
}

type CheckoutRequest struct {
	Name    string `json:"name"    form:"name"`
	Street  string `json:"street"  form:"street"`
	City    string `json:"city"    form:"city"`
	State   string `json:"state"   form:"state"`
	ZipCode string `json:"zipCode" form:"zipCode"`
	Country string `json:"country" form:"country"`
	Phone   string `json:"phone"   form:"phone"`
}

func (r CheckoutRequest) Command() service.ShippingCommand {
	return service.ShippingCommand{
		Name:    strings.TrimSpace(r.Name),
		Street:  strings.TrimSpace(r.Street),
		City:    strings.TrimSpace(r.City),
		State:   strings.TrimSpace(r.State),
		ZipCode: strings.TrimSpace(r.ZipCode),
		Country: strings.TrimSpace(r.Country),
		Phone:   strings.TrimSpace(r.Phone),
	}
}

type ContactRequest struct {
	Name    string `json:"name"    form:"name"`
	Email   string `json:"email"   form:"email"`
	Message string `json:"message" form:"message"`
}

func (r ContactRequest) Command() service.ContactCommand {
	return service.ContactCommand{Name: r.Name, Email: r.Email, Message: r.Message}
}

type StatusRequest struct {
	Status        string `json:"status"        form:"status"`
	PaymentStatus string `json:"paymentStatus" form:"paymentStatus"`
}

// Payment prefers paymentStatus and falls back to status.
func (r StatusRequest) Payment() string {
	if r.PaymentStatus != "" {
		return r.PaymentStatus
	}
	return r.Status
}
