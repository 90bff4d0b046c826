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

	"github.com/gin-gonic/gin"

	"repairdesk/internal/config"
	"repairdesk/internal/database"
	"repairdesk/internal/logger"
	"repairdesk/internal/ratelimit"
	"repairdesk/internal/server"
	"repairdesk/internal/validator"
)

// @title           repairdesk API
// @version         1.0
// @description     Device-repair quoting backend for a Shopify storefront widget: catalog, price quotes, repair requests and merchant admin.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey AdminPassword
// @in header
// @name X-Admin-Password
// @description Shared admin password, or use Authorization: Bearer with a session token.

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env, appConfig.LogFile)
	defer logger.Sync()
	log := logger.Get()

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() { _ = dbManager.Close() }()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	limiter, closeLimiter, err := newSubmitLimiter(appConfig)
	if err != nil {
		return err
	}
	defer func() { _ = closeLimiter() }()

	router := server.NewRouter(server.Deps{
		Config:       appConfig,
		DB:           dbManager.DB(),
		StoreTimeout: dbManager.StoreTimeout(),
		Limiter:      limiter,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting repairdesk server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// newSubmitLimiter uses Redis when REDIS_URL is set so every replica shares
// one window, and an in-process counter otherwise. The returned close func
// releases the Redis connection pool.
func newSubmitLimiter(cfg *config.Config) (ratelimit.Limiter, func() error, error) {
	if cfg.RedisURL == "" {
		noop := func() error { return nil }
		return ratelimit.NewMemoryLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow), noop, nil
	}
	client, err := ratelimit.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Get().Info("Submit rate limiter backed by redis")
	limiter := ratelimit.NewRedisLimiter(client, "repairdesk:submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow)
	return limiter, client.Close, nil
}
