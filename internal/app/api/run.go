package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	catalogmemory "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/application"
	catalogports "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/ports"

	orderscatalog "github.com/minimarket/go-gin-shop-server/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/minimarket/go-gin-shop-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/minimarket/go-gin-shop-server/internal/domains/orders/adapters/observability"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/adapters/persistence/gormstore"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/adapters/persistence/sqlstore"
	ordersapp "github.com/minimarket/go-gin-shop-server/internal/domains/orders/application"
	ordersports "github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"

	usersmemory "github.com/minimarket/go-gin-shop-server/internal/domains/users/adapters/memory"
	usersobs "github.com/minimarket/go-gin-shop-server/internal/domains/users/adapters/observability"
	userspostgres "github.com/minimarket/go-gin-shop-server/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/minimarket/go-gin-shop-server/internal/domains/users/application"
	usersports "github.com/minimarket/go-gin-shop-server/internal/domains/users/ports"

	"github.com/minimarket/go-gin-shop-server/internal/httpserver"
	"github.com/minimarket/go-gin-shop-server/internal/platform/auth"
	"github.com/minimarket/go-gin-shop-server/internal/platform/migrations"
	platformobservability "github.com/minimarket/go-gin-shop-server/internal/platform/observability"
	platformpostgres "github.com/minimarket/go-gin-shop-server/internal/platform/postgres"
)

// Run boots the shop HTTP API with observability, repositories, and auth wired.
func Run(ctx context.Context) error {
	const serviceName = "minimarket-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	authManager, err := auth.NewManager(auth.Config{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TokenTTL: cfg.TokenTTL(),
	})
	if err != nil {
		return fmt.Errorf("failed to configure auth: %w", err)
	}

	catalogRepo, ordersRepo, usersRepo, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	catalogService := catalogobs.New(
		catalogapp.NewService(catalogRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.domains.catalog.application")),
	)
	ordersService := ordersobs.New(
		ordersapp.NewService(ordersRepo, orderscatalog.NewReader(catalogService)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.domains.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.domains.orders.application")),
	)
	usersService := usersobs.New(
		usersapp.NewService(usersRepo, authManager),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.domains.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.domains.users.application")),
	)

	server := httpserver.NewServer(usersService, catalogService, ordersService, authManager)
	router := server.Router()
	router.Use(otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("shop API listening",
		slog.String("addr", addr),
		slog.String("order_backend", cfg.OrderBackend))
	if err := router.Run(addr); err != nil {
		logger.Error("shop API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (catalogports.Repository, ordersports.Repository, usersports.Repository, func(), error) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		catalogRepo := catalogmemory.NewRepository()
		return catalogRepo, ordersmemory.NewRepository(catalogRepo), usersmemory.NewRepository(), func() {}, nil
	}

	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to unwrap postgres connection: %w", err)
	}
	cleanup := func() { _ = sqlDB.Close() }

	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var ordersRepo ordersports.Repository
	switch cfg.OrderBackend {
	case BackendSQL:
		sqlxDB, err := platformpostgres.ConnectSQLX(ctx, cfg.PostgresDSN)
		if err != nil {
			cleanup()
			return nil, nil, nil, nil, fmt.Errorf("failed to connect sqlx: %w", err)
		}
		ordersRepo = sqlstore.NewRepository(sqlxDB)
		cleanup = func() {
			_ = sqlxDB.Close()
			_ = sqlDB.Close()
		}
		logger.Info("order store configured with raw SQL backend")
	default:
		ordersRepo = gormstore.NewRepository(db)
		logger.Info("order store configured with GORM backend")
	}

	logger.Info("postgres connection established")
	return catalogpostgres.NewRepository(db), ordersRepo, userspostgres.NewRepository(db), cleanup, nil
}
