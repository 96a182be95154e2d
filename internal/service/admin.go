package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	DashboardRecent = 5
	DeletedUserName = "[User Deleted]"
)

type AdminService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type Stats struct {
	TotalOrders    int64           `json:"totalOrders"`
	TotalProducts  int64           `json:"totalProducts"`
	TotalMessages  int64           `json:"totalMessages"`
	UnreadMessages int64           `json:"unreadMessages"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderView struct {
	models.Order
	Customer Customer `json:"customer"`
}

type Dashboard struct {
	Orders   []OrderView      `json:"orders"`
	Products []models.Product `json:"products"`
	Messages []models.Message `json:"messages"`
	Stats    Stats            `json:"stats"`
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	_, orders, err := s.Repo.GetOrders(ctx, 0, DashboardRecent)
	if err != nil {
		return nil, err
	}
	views, err := s.withCustomers(ctx, orders)
	if err != nil {
		return nil, err
	}

	products, err := s.Repo.AllProducts(ctx)
	if err != nil {
		return nil, err
	}
	_, messages, err := s.Repo.GetMessages(ctx, 0, DashboardRecent)
	if err != nil {
		return nil, err
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Orders: views, Products: products, Messages: messages, Stats: stats}, nil
}

func (s *AdminService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error

	if st.TotalOrders, err = s.Repo.CountOrders(ctx); err != nil {
		return st, err
	}
	if st.TotalProducts, err = s.Repo.CountProducts(ctx); err != nil {
		return st, err
	}
	if st.TotalMessages, err = s.Repo.CountMessages(ctx, ""); err != nil {
		return st, err
	}
	if st.UnreadMessages, err = s.Repo.CountMessages(ctx, models.MessageUnread); err != nil {
		return st, err
	}
	if st.TotalRevenue, err = s.Repo.Revenue(ctx); err != nil {
		return st, err
	}
	return st, nil
}

func (s *AdminService) GetOrders(ctx context.Context, page int) (util.Page[OrderView], error) {
	page, size := util.Normalize(page, util.AdminPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := s.Repo.GetOrders(ctx, offset, limit)
	if err != nil {
		return util.Page[OrderView]{}, err
	}
	views, err := s.withCustomers(ctx, orders)
	if err != nil {
		return util.Page[OrderView]{}, err
	}
	return util.Page[OrderView]{Data: views, Meta: util.NewMeta(page, size, total)}, nil
}

func (s *AdminService) SetOrderStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	st := models.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, FieldInvalid("status", "must be one of: pending, confirmed, shipped, delivered")
	}
	order, err := s.Repo.SetOrderStatus(ctx, id, st)
	if err != nil {
		return nil, notFound("order", err)
	}
	s.publish(ctx, order, "order_status_changed")
	return order, nil
}

func (s *AdminService) SetPaymentStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	st := models.PaymentStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, FieldInvalid("paymentStatus", "must be one of: pending, paid, failed")
	}
	order, err := s.Repo.SetPaymentStatus(ctx, id, st)
	if err != nil {
		return nil, notFound("order", err)
	}
	s.publish(ctx, order, "order_payment_changed")
	return order, nil
}

// withCustomers attaches the ordering user's name and email. Orders whose
// user no longer exists keep a placeholder.
func (s *AdminService) withCustomers(ctx context.Context, orders []models.Order) ([]OrderView, error) {
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.UserID)
	}
	users, err := s.Repo.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v := OrderView{Order: o, Customer: Customer{Name: DeletedUserName}}
		if u, ok := users[o.UserID]; ok {
			v.Customer = Customer{Name: u.Name, Email: u.Email}
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *AdminService) publish(ctx context.Context, order *models.Order, typ string) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.TopicOrders, order.ID.String(), map[string]any{
		"type":          typ,
		"orderId":       order.ID,
		"status":        order.Status,
		"paymentStatus": order.PaymentStatus,
	}); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", events.TopicOrders, "type", typ, "error", err)
	}
}
