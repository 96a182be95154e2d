// Package seed fills an empty store with the default catalog and makes sure
// the configured admin account exists.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func Products() []models.Product {
	return []models.Product{
		{
			Name:        "AscentAqua Premium 750ml",
			Description: "Experience pure hydration with our premium 750ml water bottle. Advanced filtration ensures mineral-rich, refreshing water.",
			Price:       decimal.RequireFromString("5.00"),
			Capacity:    "750ml",
			Material:    "Premium PVC",
			Weight:      "126g",
			Dimensions:  "242mm × 55mm",
			Color:       "Black passage plastic white",
			Features:    []string{"BPA Free", "Recyclable", "Eco-Friendly", "Crush After Use", "Mineral Rich"},
			InStock:     true,
			Image:       "/images/bottle.png",
		},
	}
}

type Result struct {
	ProductsCreated int
	Admin           *models.User
}

// Run inserts Products when the catalog is empty. Existing products are
// never touched, so running it twice is harmless.
func Run(ctx context.Context, r *repo.GormRepo, index service.ProductIndex, auth *service.AuthService, adminEmail, adminPassword string) (Result, error) {
	l := logging.FromContext(ctx).With("svc", "seed")
	var res Result

	n, err := r.CountProducts(ctx)
	if err != nil {
		return res, fmt.Errorf("count products: %w", err)
	}
	if n == 0 {
		for _, p := range Products() {
			if err := r.CreateProduct(ctx, &p); err != nil {
				return res, fmt.Errorf("create product %q: %w", p.Name, err)
			}
			if index != nil {
				if err := index.IndexProduct(ctx, &p); err != nil {
					l.Warn("seed_index_failed", "product_id", p.ID, "error", err)
				}
			}
			res.ProductsCreated++
		}
	} else {
		l.Info("seed_products_skipped", "existing", n)
	}

	admin, err := auth.EnsureAdmin(ctx, adminEmail, adminPassword)
	if err != nil {
		return res, fmt.Errorf("ensure admin: %w", err)
	}
	res.Admin = admin
	return res, nil
}
