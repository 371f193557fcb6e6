package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/redis/go-redis/v9"

	"github.com/klau55/clicker-mobile-app/internal/api"
	"github.com/klau55/clicker-mobile-app/internal/config"
	"github.com/klau55/clicker-mobile-app/internal/database"
	"github.com/klau55/clicker-mobile-app/internal/database/migrations"
	"github.com/klau55/clicker-mobile-app/internal/handler"
	"github.com/klau55/clicker-mobile-app/internal/logger"
	"github.com/klau55/clicker-mobile-app/internal/ratelimit"
	"github.com/klau55/clicker-mobile-app/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}
	logger.SetDebug(cfg.IsDevelopment() || cfg.LogDebug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.AutoMigrate {
		if err := migrate(ctx, cfg.DSN()); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	pool, err := database.ConnectPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	var rdb *redis.Client
	if cfg.RateLimitBackend == config.BackendRedis {
		rdb, err = ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		logger.Success("Connected to Redis at %s", cfg.RedisAddr)
	}

	loginLimiter, err := newLimiter(cfg, rdb, "login", cfg.LoginRateLimit)
	if err != nil {
		return err
	}
	signupLimiter, err := newLimiter(cfg, rdb, "register", cfg.RegisterRateLimit)
	if err != nil {
		return err
	}

	store := database.NewStore(pool, cfg.DBQueryTimeout)
	accounts, err := services.NewAccountService(store, services.DefaultPolicy, cfg.BcryptCost)
	if err != nil {
		return err
	}
	h := handler.New(
		accounts,
		services.NewTapService(store),
		services.NewLeaderboardService(store, cfg.LeaderboardMaxLimit),
		store,
		handler.Options{
			ExposeErrors: cfg.IsDevelopment(),
			MaxLimit:     cfg.LeaderboardMaxLimit,
			APIPrefix:    cfg.APIPrefix,
		},
	)

	// Initialize routes
	router := api.SetupRouter(h, api.RouterConfig{
		APIPrefix:     cfg.APIPrefix,
		TrustProxy:    cfg.TrustProxy,
		AllowAllCORS:  cfg.IsDevelopment(),
		CORSOrigins:   cfg.CORSOrigins,
		LoginLimiter:  loginLimiter,
		SignupLimiter: signupLimiter,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Success("Server starting on port %s (%s, rate limit backend %s)", cfg.Port, cfg.Env, cfg.RateLimitBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warning("Server shutdown error: %v", err)
	}
	logger.Success("Server stopped")
	return nil
}

func newLimiter(cfg *config.Config, rdb *redis.Client, name string, limit int) (ratelimit.Limiter, error) {
	policy := ratelimit.Policy{Limit: limit, Window: cfg.RateLimitWindow}
	var scripter redis.Scripter
	if rdb != nil {
		scripter = rdb
	}
	return ratelimit.New(cfg.RateLimitBackend, name, policy, scripter, clock.WallClock)
}

func migrate(ctx context.Context, dsn string) error {
	db, err := migrations.Open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrations.Apply(ctx, db)
}
