package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

func TestProducts_LatestAndPaging(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	ctx := context.Background()

	old := testutil.SeedProduct(t, db, "Old", "1.00", true, -3*time.Hour)
	out := testutil.SeedProduct(t, db, "Out", "2.00", false, -2*time.Hour)
	fresh := testutil.SeedProduct(t, db, "Fresh", "3.00", true, -time.Hour)

	latest, err := r.LatestProducts(ctx, 3, true)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, fresh.ID, latest[0].ID)
	assert.Equal(t, old.ID, latest[1].ID)

	total, page, err := r.GetProducts(ctx, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, out.ID, page[0].ID)
	assert.Equal(t, []string{"BPA Free"}, page[0].Features)
}

func TestProducts_SearchIsCaseInsensitiveAndEscaped(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "AscentAqua Premium", "5.00", true, 0)
	testutil.SeedProduct(t, db, "Plain Cup", "1.00", true, time.Second)

	total, items, err := r.SearchProducts(ctx, "aQuA", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "AscentAqua Premium", items[0].Name)

	total, _, err = r.SearchProducts(ctx, "%", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestProducts_SaveKeepsZeroValuesAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	ctx := context.Background()

	p := testutil.SeedProduct(t, db, "Bottle", "5.00", true, 0)
	p.InStock = false
	p.Price = decimal.RequireFromString("6.50")
	require.NoError(t, r.SaveProduct(ctx, &p))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.InStock)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("6.50")))

	ghost := models.Product{ID: uuid.New(), Name: "ghost"}
	assert.ErrorIs(t, r.SaveProduct(ctx, &ghost), gorm.ErrRecordNotFound)

	require.NoError(t, r.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, r.DeleteProduct(ctx, p.ID), gorm.ErrRecordNotFound)
	_, err = r.GetProduct(ctx, p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestProductsByIDs_KeepsOrder(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)

	a := testutil.SeedProduct(t, db, "A", "1.00", true, 0)
	b := testutil.SeedProduct(t, db, "B", "1.00", true, time.Second)

	got, err := r.ProductsByIDs(context.Background(), []uuid.UUID{b.ID, uuid.New(), a.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
}

func TestUsers_CreateIfNotExists(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	ctx := context.Background()

	u := models.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, r.CreateUserIfNotExists(ctx, &u))
	assert.NotEqual(t, uuid.Nil, u.ID)

	dup := models.User{Name: "Other", Email: "jane@example.com", PasswordHash: "y", Role: models.RoleUser}
	assert.ErrorIs(t, r.CreateUserIfNotExists(ctx, &dup), ErrUserAlreadyExist)

	require.NoError(t, r.SetUserRole(ctx, u.ID, models.RoleAdmin))
	got, err := r.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	m, err := r.UsersByIDs(ctx, []uuid.UUID{u.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, m, 1)
}

func TestOrders_RevenueAndStatus(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	ctx := context.Background()

	revenue, err := r.Revenue(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.IsZero())

	userID := uuid.New()
	mk := func(key, total string, pay models.PaymentStatus) models.Order {
		o := models.Order{
			UserID:        userID,
			Items:         []models.OrderItem{{ProductID: uuid.New(), Name: "Bottle", Price: decimal.RequireFromString(total), Quantity: 1}},
			TotalAmount:   decimal.RequireFromString(total),
			PaymentStatus: pay,
			CheckoutKey:   key,
		}
		require.NoError(t, r.CreateOrder(ctx, &o))
		return o
	}
	paid := mk("k1", "10.00", models.PaymentPaid)
	mk("k2", "7.50", models.PaymentPaid)
	mk("k3", "100.00", models.PaymentPending)

	dup := models.Order{UserID: userID, TotalAmount: decimal.Zero, CheckoutKey: "k1"}
	assert.Error(t, r.CreateOrder(ctx, &dup))

	revenue, err = r.Revenue(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.RequireFromString("17.50")), "got %s", revenue)

	byKey, err := r.GetOrderByCheckoutKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, paid.ID, byKey.ID)
	assert.Equal(t, models.OrderPending, byKey.Status)
	require.Len(t, byKey.Items, 1)
	assert.Equal(t, "Bottle", byKey.Items[0].Name)

	updated, err := r.SetOrderStatus(ctx, paid.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)

	_, err = r.SetPaymentStatus(ctx, uuid.New(), models.PaymentFailed)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	n, err := r.CountOrders(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestMessages_Lifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	ctx := context.Background()

	m := models.Message{Name: "Ann", Email: "ann@example.com", Message: "hello"}
	require.NoError(t, r.CreateMessage(ctx, &m))
	assert.Equal(t, models.MessageUnread, m.Status)

	unread, err := r.CountMessages(ctx, models.MessageUnread)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	got, err := r.SetMessageStatus(ctx, m.ID, models.MessageResolved)
	require.NoError(t, err)
	assert.Equal(t, models.MessageResolved, got.Status)

	unread, err = r.CountMessages(ctx, models.MessageUnread)
	require.NoError(t, err)
	assert.Zero(t, unread)

	require.NoError(t, r.DeleteMessage(ctx, m.ID))
	assert.ErrorIs(t, r.DeleteMessage(ctx, m.ID), gorm.ErrRecordNotFound)
}
