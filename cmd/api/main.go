package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kasir_backend/internal/cashier"
	"kasir_backend/internal/catalog"
	"kasir_backend/internal/catalog/repository"
	apphttp "kasir_backend/internal/http"
	"kasir_backend/internal/http/router"
	"kasir_backend/internal/sales"
	"kasir_backend/platform/cache"
	"kasir_backend/platform/config"
	"kasir_backend/platform/db"
	"kasir_backend/platform/logger"
	"kasir_backend/platform/sheets"
	"kasir_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr,
		"catalogSource", cfg.GetCatalogSource(), "sinkBackend", cfg.GetSinkBackend())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var sheetsClient *sheets.Client
	if cfg.UsesSheets() {
		sheetsClient, err = sheets.New(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize sheets client", "error", err)
			panic("failed to initialize sheets client: " + err.Error())
		}
		log.Info("sheets client initialized")
	}

	var rdb redis.Cmdable
	redisClient, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable; catalog cache stays in-process", "error", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		rdb = redisClient
		log.Info("redis catalog cache enabled")
	}

	var health apphttp.HealthChecker
	var sink sales.Sink
	switch cfg.GetSinkBackend() {
	case config.SinkBackendPostgres:
		pool := connectDatabase(ctx, cfg, log)
		defer pool.Close()
		health = db.NewPoolAdapter(pool)
		sink = sales.NewPostgresSink(pool)
	default:
		sink = sales.NewSheetSink(sheetsClient, cfg.GetLogSheetName())
	}

	var catalogRepo repository.Repository
	switch cfg.GetCatalogSource() {
	case config.CatalogSourceFile:
		catalogRepo = repository.NewFileRepo(cfg.GetCatalogFile())
	default:
		catalogRepo = repository.NewSheetRepo(sheetsClient, cfg.GetMasterSheetName(), repository.Columns{
			Tenant:  cfg.GetCatalogColumnTenant(),
			Product: cfg.GetCatalogColumnProduct(),
			Price:   cfg.GetCatalogColumnPrice(),
		})
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(catalogRepo, rdb, catalog.Config{
		TTL:            cfg.GetCatalogCacheTTL(),
		RedisKeyPrefix: cfg.GetRedisKeyPrefix(),
	}, log)

	salesService := sales.New(sink, time.Now, log)

	cashierModule := cashier.NewModule(catalogModule.Service(), salesService, val, cashier.Config{
		SessionIdleTTL:   cfg.GetSessionIdleTTL(),
		ResetAfterSubmit: cfg.GetResetAfterSubmit(),
	}, log)

	// Warm the cache; a failure here is reported to users on first use.
	if _, err := catalogModule.Service().Load(ctx); err != nil {
		log.Warn("initial catalog load failed", "error", err)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:              cfg,
		Logger:              log,
		Health:              health,
		SubmitRatePerMinute: cfg.GetSubmitRatePerMinute(),
		Modules: []apphttp.Module{
			catalogModule,
			cashierModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func connectDatabase(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) *pgxpool.Pool {
	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		pool.Close()
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	return pool
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
