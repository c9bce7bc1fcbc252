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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/payinstr/internal/adapter/http"
	"github.com/iho/payinstr/internal/adapter/http/handler"
	"github.com/iho/payinstr/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/payinstr/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/payinstr/internal/adapter/repository/redis"
	"github.com/iho/payinstr/internal/infrastructure/auth"
	"github.com/iho/payinstr/internal/infrastructure/config"
	"github.com/iho/payinstr/internal/infrastructure/logger"
	"github.com/iho/payinstr/internal/infrastructure/metrics"
	"github.com/iho/payinstr/internal/infrastructure/postgres"
	"github.com/iho/payinstr/internal/infrastructure/redis"
	"github.com/iho/payinstr/internal/usecase"
)

const (
	dependencyConnectTimeout = 10 * time.Second
	poolHealthCheckPeriod    = 30 * time.Second
	rateLimitCleanupInterval = 10 * time.Minute
	rateLimitMaxIdle         = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "payinstr-server",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer app.Close()

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// app owns the HTTP server and the optional infrastructure behind it.
type app struct {
	server      *http.Server
	pool        *pgxpool.Pool
	redisClient *goredis.Client
	cancel      context.CancelFunc
}

// newApp wires the server. Postgres, Redis, rate limiting and auth are each
// enabled only when configured.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}

	var auditRepo usecase.AuditRepository = postgresRepo.NewNullAuditRepository()
	if cfg.AuditEnabled() {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return nil, err
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:       cfg.DatabaseURL,
			MaxConns:          cfg.DatabaseMaxConns,
			MinConns:          cfg.DatabaseMinConns,
			ConnectTimeout:    dependencyConnectTimeout,
			HealthCheckPeriod: poolHealthCheckPeriod,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		auditRepo = postgresRepo.NewAuditRepository(pool)
		log.Info().Msg("audit trail enabled")
	} else {
		log.Info().Msg("audit trail disabled: DATABASE_URL not set")
	}

	m := metrics.New()

	retryCfg := postgresRepo.DefaultRetryConfig()
	retryCfg.MaxRetries = cfg.AuditMaxRetries

	instructionUC := usecase.NewInstructionUseCase(
		auditRepo,
		postgresRepo.NewRetrier(retryCfg, log),
		postgresRepo.NewULIDGenerator(),
		usecase.SystemClock{},
		m,
		log,
	)

	routerCfg := httpAdapter.RouterConfig{
		InstructionHandler: handler.NewInstructionHandler(instructionUC),
		MetricsHandler:     promhttp.Handler(),
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
		Logger:             log,
	}

	if cfg.IdempotencyEnabled() {
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPoolSize)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redisClient = client
		store := redisRepo.NewIdempotencyStore(client, redisRepo.DefaultIdempotencyPrefix)
		routerCfg.IdempotencyMiddleware = middleware.NewIdempotencyMiddleware(store, cfg.IdempotencyTTL, m, log)
		log.Info().Msg("idempotency enabled")
	}

	if cfg.RateLimitRPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithRecorder(m)
		cleanupCtx, cancel := context.WithCancel(context.Background())
		a.cancel = cancel
		go rl.RunCleanup(cleanupCtx, rateLimitCleanupInterval, rateLimitMaxIdle)
		routerCfg.RateLimiter = rl
	}

	if cfg.AuthEnabled {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("bearer token authentication enabled")
	}

	routerCfg.HealthHandler = handler.NewHealthHandler(a.pool, a.redisClient)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return a, nil
}

// Close releases the infrastructure owned by the app.
func (a *app) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.redisClient != nil {
		a.redisClient.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
