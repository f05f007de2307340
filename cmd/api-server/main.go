package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"libraryhub/database"
	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	"libraryhub/internal/microservices/http-api/handler"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"
	"libraryhub/internal/reports"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// Redis is optional; without it the dashboard is computed on every request.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewClient(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis_unavailable", "error", err)
		} else {
			defer redisClient.Close()
			logger.Info("redis_connected")
		}
	}

	reader, err := reports.FromGorm(db)
	if err != nil {
		logger.Error("reports_setup_failed", "error", err)
		os.Exit(1)
	}

	store := repository.NewStore(db)
	policy := service.LoanPolicy{
		LoanPeriodDays: cfg.LoanPeriodDays,
		FinePerDay:     cfg.FinePerDay,
		MaxAmountDue:   cfg.MaxAmountDue,
	}

	services := handler.Services{
		Auth:      service.NewAuthService(store.Librarians(), cfg.JWTSecret, cfg.SessionTTL),
		Catalog:   service.NewCatalogService(store),
		Members:   service.NewMemberService(store),
		Loans:     service.NewLoanService(store, policy),
		Lending:   service.NewLendingService(store, policy),
		Payments:  service.NewPaymentService(store),
		Dashboard: service.NewDashboardService(reader, cache.NewDashboardCache(redisClient, cfg.CacheExpiry()), logger),
	}

	router := handler.NewRouter(services, handler.RouterConfig{
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.IsProduction(),
		LoginLimiter: middleware.NewIPRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst),
		Clock:        handler.LibraryClock(cfg.Location()),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting_http_server",
		"addr", srv.Addr,
		"env", cfg.GoEnv,
		"timezone", cfg.TimeZone,
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown_failed", "error", err)
			return
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
