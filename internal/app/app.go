// Package app wires configuration, storage, transport, and background
// jobs into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/okarpov/storecore/internal/cache"
	"github.com/okarpov/storecore/internal/config"
	"github.com/okarpov/storecore/internal/event"
	handlerhttp "github.com/okarpov/storecore/internal/handler/http"
	"github.com/okarpov/storecore/internal/repository"
	"github.com/okarpov/storecore/internal/repository/memory"
	"github.com/okarpov/storecore/internal/repository/postgres"
	"github.com/okarpov/storecore/internal/service"
	"github.com/okarpov/storecore/pkg/database"
	"github.com/okarpov/storecore/pkg/health"
	pkgkafka "github.com/okarpov/storecore/pkg/kafka"
	"github.com/okarpov/storecore/pkg/logger"
	"github.com/okarpov/storecore/pkg/tracing"
)

// App owns every long-lived component and their shutdown order.
type App struct {
	cfg *config.Config
	log *slog.Logger

	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	producer    *pkgkafka.Producer
	reviews     *service.ReviewService

	server          *http.Server
	tracingShutdown func(context.Context) error

	stopRebuild chan struct{}
}

// New builds the application from configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(log)

	a := &App{cfg: cfg, log: log, stopRebuild: make(chan struct{})}

	tracingShutdown, err := tracing.Init(ctx, cfg.ServiceName, cfg.Version, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	a.tracingShutdown = tracingShutdown

	healthHandler := health.NewHandler()

	store, err := a.initStore(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	analyticsCache, err := a.initCache(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	events := a.initEvents(healthHandler)

	products := service.NewProductService(store.Products, events, analyticsCache, log)
	customers := service.NewCustomerService(store.Customers, store.Orders, store.Reviews, events, log)
	orders := service.NewOrderService(store.Orders, store.Products, store.Customers, events, log)
	a.reviews = service.NewReviewService(store.Reviews, store.Products, store.Customers, events, analyticsCache, log)
	analytics := service.NewAnalyticsService(store, analyticsCache, log)

	router := handlerhttp.NewRouter(handlerhttp.RouterConfig{
		Products:           products,
		Customers:          customers,
		Orders:             orders,
		Reviews:            a.reviews,
		Analytics:          analytics,
		Health:             healthHandler,
		Log:                log,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

func (a *App) initStore(ctx context.Context, h *health.Handler) (*repository.Store, error) {
	if a.cfg.StorageBackend == config.BackendMemory {
		a.log.Info("using in-memory storage backend")
		return memory.NewStore(), nil
	}

	pool, err := database.NewPostgresPool(ctx, a.cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	a.pgPool = pool

	if err := database.Migrate(ctx, pool, postgres.Migrations(), a.log); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	h.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	a.log.Info("using postgres storage backend",
		slog.String("host", a.cfg.Postgres.Host),
		slog.String("database", a.cfg.Postgres.Database),
	)
	return postgres.NewStore(pool), nil
}

func (a *App) initCache(ctx context.Context, h *health.Handler) (*cache.AnalyticsCache, error) {
	if !a.cfg.RedisEnabled {
		return nil, nil
	}

	client, err := database.NewRedisClient(ctx, a.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	a.redisClient = client

	h.Register("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})

	a.log.Info("analytics cache enabled", slog.String("addr", a.cfg.Redis.Addr))
	return cache.NewAnalyticsCache(client, a.cfg.CacheTTL, a.log), nil
}

func (a *App) initEvents(h *health.Handler) *event.Producer {
	if !a.cfg.KafkaEnabled {
		return event.NewProducer(nil, a.log)
	}

	a.producer = pkgkafka.NewProducer(a.cfg.Kafka)

	h.Register("kafka", func(ctx context.Context) error {
		return a.producer.Ping(ctx)
	})

	a.log.Info("event publishing enabled", slog.Any("brokers", a.cfg.Kafka.Brokers))
	return event.NewProducer(a.producer, a.log)
}

// Run starts the HTTP server and background jobs, blocking until the
// server stops.
func (a *App) Run() error {
	if a.cfg.RatingRebuildInterval > 0 {
		go a.runRatingRebuild()
	}

	a.log.Info("http server listening",
		slog.String("addr", a.server.Addr),
		slog.String("backend", a.cfg.StorageBackend),
	)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// runRatingRebuild periodically re-derives every product's rating
// summary from its reviews.
func (a *App) runRatingRebuild() {
	ticker := time.NewTicker(a.cfg.RatingRebuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopRebuild:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := a.reviews.RebuildSummaries(ctx); err != nil {
				a.log.Error("rating rebuild failed", slog.String("error", err.Error()))
			}
			cancel()
		}
	}
}

// Shutdown stops components in reverse dependency order.
func (a *App) Shutdown(ctx context.Context) error {
	close(a.stopRebuild)

	var errs []error

	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing kafka producer: %w", err))
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing redis client: %w", err))
		}
	}

	if a.pgPool != nil {
		a.pgPool.Close()
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
