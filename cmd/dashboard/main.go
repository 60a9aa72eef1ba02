// @title                       Agency Dashboard API
// @version                     1.0
// @description                 Multi-tenant sales call tracking and performance metrics.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the identity provider token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/closerhq/agency-dashboard/docs"
	"github.com/closerhq/agency-dashboard/internal/api"
	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
	"github.com/closerhq/agency-dashboard/internal/core/service"
	"github.com/closerhq/agency-dashboard/internal/infrastructure/auth"
	"github.com/closerhq/agency-dashboard/internal/infrastructure/cache"
	"github.com/closerhq/agency-dashboard/internal/infrastructure/config"
	mongostore "github.com/closerhq/agency-dashboard/internal/infrastructure/db/mongo"
	"github.com/closerhq/agency-dashboard/internal/infrastructure/db/postgres"
	redisstore "github.com/closerhq/agency-dashboard/internal/infrastructure/db/redis"
	"github.com/closerhq/agency-dashboard/internal/infrastructure/http/handlers"
	"github.com/closerhq/agency-dashboard/internal/infrastructure/queue"
	"github.com/closerhq/agency-dashboard/pkg/logger"
)

const sweepInterval = time.Minute

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "agency-dashboard",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting agency dashboard")

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("dashboard stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Background workers (sweeper, audit dispatcher) stop when bgCtx is cancelled.
	bgCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	readiness := handlers.NewHealthDependenciesHandler()

	// --- PostgreSQL: calls, tenants, ad spend ---
	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns}, log)
	if err != nil {
		return err
	}
	defer pool.Close()
	readiness.WithPostgres(pool)

	// --- MongoDB: stage audit trail (optional) ---
	var (
		audit      ports.AuditRepository
		publisher  ports.StagePublisher
		dispatcher *queue.Dispatcher
	)
	if cfg.Mongo.AuditEnabled {
		db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}, log)
		if err != nil {
			log.Warn().Err(err).Msg("MongoDB not available, stage audit disabled")
		} else {
			defer func() {
				dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = db.Client().Disconnect(dctx)
			}()
			repo := mongostore.NewAuditRepository(db)
			if err := repo.EnsureIndexes(ctx); err != nil {
				log.Warn().Err(err).Msg("could not ensure audit indexes")
			}
			dispatcher = queue.NewDispatcher(cfg.Mongo.AuditWorkers, repo, logger.With("audit"))
			dispatcher.Start(bgCtx)
			audit, publisher = repo, dispatcher
			readiness.WithMongo(db)
		}
	}

	// --- Metrics cache ---
	metricsCache, closeCache := buildCache(ctx, bgCtx, cfg, log, readiness)
	defer closeCache()

	// --- Identity provider ---
	verifier, err := auth.NewJWTVerifier(auth.Config{
		Secret:       cfg.Auth.JWTSecret,
		PublicKeyPEM: cfg.Auth.JWTPublicKey,
		Issuer:       cfg.Auth.Issuer,
	})
	if err != nil {
		return err
	}
	defaultRole, ok := domain.ParseRole(cfg.Auth.DefaultRole)
	if !ok {
		return fmt.Errorf("unknown AUTH_DEFAULT_ROLE %q", cfg.Auth.DefaultRole)
	}

	// --- Services ---
	directoryRepo := postgres.NewDirectoryRepository(pool)
	e := api.NewRouter(api.Deps{
		Logger:      log,
		Verifier:    verifier,
		DefaultRole: defaultRole,
		Metrics: service.NewMetricsService(postgres.NewMetricsRepository(pool), metricsCache,
			logger.With("metrics")),
		Calls: service.NewCallService(postgres.NewCallRepository(pool), directoryRepo, audit, publisher,
			logger.With("calls")),
		Directory:      service.NewDirectoryService(directoryRepo, logger.With("directory")),
		Readiness:      readiness,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		Swagger:        !cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server...")
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// In-flight requests are done; flush the audit queue before the stores close.
	stopWorkers()
	if dispatcher != nil {
		dispatcher.Wait()
	}
	return nil
}

// buildCache returns the configured metrics cache and its cleanup function.
// An unreachable Redis falls back to the in-process cache.
func buildCache(ctx, bgCtx context.Context, cfg *config.Config, log zerolog.Logger, readiness *handlers.HealthDependenciesHandler) (ports.Cache, func()) {
	switch strings.ToLower(cfg.Cache.Driver) {
	case "none":
		log.Info().Msg("metrics cache disabled")
		return cache.Nop{}, func() {}
	case "redis":
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		}, log)
		if err == nil {
			readiness.WithRedis(rdb)
			return redisstore.NewMetricsCache(rdb, cfg.Cache.TTL), func() { _ = rdb.Close() }
		}
		log.Warn().Err(err).Msg("Redis not available, using in-memory metrics cache")
	}

	mem := cache.NewMemory(cfg.Cache.TTL)
	go mem.RunSweeper(bgCtx, sweepInterval)
	return mem, func() {}
}
