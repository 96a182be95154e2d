package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/cartstore"
	"github.com/Skotchmaster/storefront/internal/images"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

type testEnv struct {
	Repo     *repo.GormRepo
	Carts    *cartstore.RedisStore
	Events   *testutil.EventRecorder
	Index    *fakeIndex
	Catalog  *CatalogService
	Auth     *AuthService
	Cart     *SessionCart
	Checkout *CheckoutService
	Inbox    *InboxService
	Admin    *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)
	r := repo.New(db)
	carts := cartstore.NewRedisStore(rdb, time.Hour)
	rec := &testutil.EventRecorder{}
	idx := &fakeIndex{}
	imgs, err := images.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	return &testEnv{
		Repo:     r,
		Carts:    carts,
		Events:   rec,
		Index:    idx,
		Catalog:  &CatalogService{Repo: r, Index: idx, Images: imgs, Events: rec},
		Auth:     &AuthService{Repo: r, Events: rec, Secret: []byte("svc-test-secret"), TTL: time.Hour},
		Cart:     NewCartService(carts, r),
		Checkout: &CheckoutService{Repo: r, Carts: carts, Events: rec},
		Inbox:    &InboxService{Repo: r, Events: rec},
		Admin:    &AdminService{Repo: r, Events: rec},
	}
}

func (e *testEnv) product(t *testing.T, name, price string) models.Product {
	t.Helper()
	return testutil.SeedProduct(t, e.Repo.DB, name, price, true, 0)
}

func (e *testEnv) user(t *testing.T, email, role string) Principal {
	t.Helper()
	u := testutil.SeedUser(t, e.Repo.DB, email, "secret1", role)
	return Principal{UserID: u.ID, Role: u.Role}
}

// fakeIndex records index writes and serves canned search results.
type fakeIndex struct {
	Indexed   []uuid.UUID
	Deleted   []uuid.UUID
	Hits      []uuid.UUID
	SearchErr error
	WriteErr  error
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.Indexed = append(f.Indexed, p.ID)
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.Deleted = append(f.Deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []uuid.UUID, error) {
	if f.SearchErr != nil {
		return 0, nil, f.SearchErr
	}
	return int64(len(f.Hits)), f.Hits, nil
}

// flakyClear fails ClearIfVersion, standing in for a crash between order
// creation and cart clearing.
type flakyClear struct {
	CartRepository
	fail bool
}

func (f *flakyClear) ClearIfVersion(ctx context.Context, sid string, version int64) (bool, error) {
	if f.fail {
		return false, errors.New("redis down")
	}
	return f.CartRepository.ClearIfVersion(ctx, sid, version)
}

var _ CartRepository = (*flakyClear)(nil)
