package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Skotchmaster/storefront/internal/cartstore"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/images"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/telemetry"
	"github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	shutdownTracing, err := telemetry.Setup(cfg.ServiceName, cfg.OtelEnabled, os.Stdout)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.Migrate(ctx, db, models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis url: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	var kafkaProducer *events.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaProducer = events.NewKafkaProducer(cfg.KafkaBrokers)
		publisher = kafkaProducer
		logger.Info("events_enabled", "brokers", cfg.KafkaBrokers)
	}

	var index service.ProductIndex
	if cfg.ESURL != "" {
		es, err := search.New(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex})
		if err != nil {
			log.Fatalf("search: %v", err)
		}
		if err := es.EnsureIndex(ctx); err != nil {
			logger.Warn("search_index_unavailable", "reason", "falling back to database search", "error", err)
		}
		index = es
	}

	var imageStore images.Store
	var natsStore *images.JetStreamStore
	if cfg.NATSURL != "" {
		natsStore, err = images.NewJetStreamStore(ctx, cfg.NATSURL, cfg.ImageBucket)
		if err != nil {
			log.Fatalf("image store: %v", err)
		}
		imageStore = natsStore
	} else {
		disk, err := images.NewDiskStore(cfg.ImageDir)
		if err != nil {
			log.Fatalf("image store: %v", err)
		}
		imageStore = disk
	}

	r := repo.New(db)
	carts := cartstore.NewRedisStore(rdb, cfg.SessionTTL)
	cartSvc := service.NewCartService(carts, r)
	auth := &service.AuthService{Repo: r, Events: publisher, Secret: cfg.SessionSecret, TTL: cfg.SessionTTL}
	inbox := &service.InboxService{Repo: r, Events: publisher}

	if admin, err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("ensure admin: %v", err)
	} else if admin != nil {
		logger.Info("admin_ready", "user_id", admin.ID)
	}
	cancel()

	sessCfg := session.Config{TTL: cfg.SessionTTL, Secure: cfg.CookieSecure}
	var csrfCfg *csrf.Config
	if cfg.CSRFEnabled {
		c := csrf.DefaultConfig()
		c.Secure = cfg.CookieSecure
		c.MaxAge = cfg.SessionTTL
		csrfCfg = &c
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.BodyLimit("10M"))
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Catalog:  &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Index: index, Images: imageStore, Events: publisher}},
		Images:   &httpserver.ImagesHTTP{Store: imageStore},
		Auth:     &httpserver.AuthHTTP{Svc: auth, Carts: cartSvc, Session: sessCfg},
		Cart:     &httpserver.CartHTTP{Svc: cartSvc},
		Checkout: &httpserver.CheckoutHTTP{Svc: &service.CheckoutService{Repo: r, Carts: carts, Events: publisher}},
		Contact:  &httpserver.ContactHTTP{Svc: inbox},
		Admin:    &httpserver.AdminHTTP{Svc: &service.AdminService{Repo: r, Events: publisher}, Inbox: inbox},

		SessionSecret: cfg.SessionSecret,
		Session:       sessCfg,
		CSRF:          csrfCfg,
		Ready: []httpserver.ReadyCheck{
			{Name: "db", Check: func(ctx context.Context) error { return pkgdb.Ping(ctx, db) }},
			{Name: "redis", Check: carts.Ping},
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           otelhttp.NewHandler(e, cfg.ServiceName),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if kafkaProducer != nil {
		_ = kafkaProducer.Close()
	}
	if natsStore != nil {
		natsStore.Close()
	}
	_ = rdb.Close()
	_ = pkgdb.Close(db)
	_ = shutdownTracing(shutdownCtx)

	logger.Info("stopped")
}
