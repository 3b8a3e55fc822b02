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

	"volunteer_map_backend/internal/geocoding"
	"volunteer_map_backend/internal/health"
	apphttp "volunteer_map_backend/internal/http"
	"volunteer_map_backend/internal/http/router"
	"volunteer_map_backend/internal/volunteers"
	"volunteer_map_backend/internal/volunteers/repository"
	"volunteer_map_backend/platform/config"
	"volunteer_map_backend/platform/db"
	"volunteer_map_backend/platform/logger"
	"volunteer_map_backend/platform/metrics"
	"volunteer_map_backend/platform/phone"
	"volunteer_map_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "env_file", cfg.EnvFile)
	if cfg.MissingPassword() {
		log.Warn("DB_PASSWORD is empty; set it in .env if the database requires a password")
	}
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err, "database", cfg.MaskedDatabaseURL())
		os.Exit(1)
	}
	defer pool.Close()
	log.Info("database connection established", "database", cfg.MaskedDatabaseURL())

	if cfg.MigrationsEnabled {
		if err := withRetry(ctx, log, "database migrations", 3, 2*time.Second, func() error {
			applied, err := db.RunMigrations(ctx, pool)
			if err != nil {
				return err
			}
			log.Info("database migrations complete", "applied", applied)
			return nil
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			os.Exit(1)
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	resolver, err := geocoding.NewFromConfig(cfg, log, m)
	if err != nil {
		log.Error("failed to initialize geocoder", "error", err)
		os.Exit(1)
	}
	log.Info("geocoder ready", "strategies", resolver.Strategies(), "min_interval", cfg.GeocoderMinInterval)

	// ========================================================================
	// Domain Modules
	// ========================================================================

	volunteersModule := volunteers.NewModule(volunteers.Deps{
		Repo:      repository.New(pool),
		Geocoder:  resolver,
		Validator: validator.New(),
		Phones:    phone.NewNormalizer(cfg.PhoneDefaultRegion),
		Logger:    log,
		Metrics:   m,
	})

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Metrics: m,
		Modules: []apphttp.Module{
			health.NewModule(volunteersModule.Service(), log),
			volunteersModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
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
