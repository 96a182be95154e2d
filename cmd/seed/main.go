package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/seed"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName+"-seed")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logging.IntoContext(ctx, logger)

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer pkgdb.Close(db)

	if err := pkgdb.Migrate(ctx, db, models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var index service.ProductIndex
	if cfg.ESURL != "" {
		es, err := search.New(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex})
		if err != nil {
			log.Fatalf("search: %v", err)
		}
		if err := es.EnsureIndex(ctx); err != nil {
			log.Fatalf("search index: %v", err)
		}
		index = es
	}

	r := repo.New(db)
	auth := &service.AuthService{Repo: r, Events: events.Nop{}, Secret: cfg.SessionSecret, TTL: cfg.SessionTTL}

	res, err := seed.Run(ctx, r, index, auth, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	logger.Info("seed_complete", "products_created", res.ProductsCreated, "admin", res.Admin != nil)
	if res.Admin == nil {
		logger.Warn("seed_admin_skipped", "reason", "ADMIN_PASSWORD is empty and the account does not exist", "email", cfg.AdminEmail)
	}
}
