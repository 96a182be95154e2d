// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/storefront/internal/models"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/hash"
)

func init() {
	hash.Cost = bcrypt.MinCost
}

// NewDB opens a private in-memory sqlite database with all models migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, pkgdb.Migrate(context.Background(), db, models.All()...))
	return db
}

func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

// SeedProduct inserts a product; created_at is spaced by offset so ordering
// by creation time is deterministic.
func SeedProduct(t *testing.T, db *gorm.DB, name, price string, inStock bool, offset time.Duration) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Capacity:    "750ml",
		Material:    "Premium PVC",
		Features:    []string{"BPA Free"},
		InStock:     inStock,
		Image:       "/images/bottle.png",
		CreatedAt:   time.Now().UTC().Add(offset),
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func SeedUser(t *testing.T, db *gorm.DB, email, password, role string) models.User {
	t.Helper()
	h, err := hash.HashPassword(password)
	require.NoError(t, err)
	u := models.User{Name: "User " + email, Email: email, PasswordHash: h, Phone: "555-0100", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}
