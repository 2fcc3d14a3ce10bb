package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paybridge/internal/config"
	"paybridge/internal/middleware"
	"paybridge/internal/paidyet"
	"paybridge/internal/router"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	env, err := paidyet.ParseEnvironment(cfg.PaidYET.Environment)
	if err != nil {
		logger.Fatal("Invalid PAIDYET_ENVIRONMENT", zap.Error(err))
	}

	creds := paidyet.Credentials{
		MerchantID: cfg.PaidYET.MerchantID,
		APIKey:     cfg.PaidYET.APIKey,
		Env:        env,
	}

	// --- PaidYET wiring ---
	issuer := paidyet.NewHTTPIssuer(cfg.API.Timeout)
	store := paidyet.NewTokenStore(issuer, cfg.Token.RefreshSkew, cfg.API.Timeout)
	gateway := paidyet.NewHTTPGateway(env, cfg.API.Timeout)
	dispatcher := paidyet.NewDispatcher(store, gateway, paidyet.RetryPolicy{
		Attempts: cfg.API.RetryAttempts,
		Delay:    cfg.API.RetryDelay,
	}, logger)

	// --- Webhook Deduper (Redis with in-memory fallback) ---
	deduper, dedupeErr := middleware.NewEventDeduper(
		cfg.Redis.Addr,
		cfg.Redis.Pass,
		cfg.Redis.DB,
		24*time.Hour,
	)
	if dedupeErr != nil {
		logger.Warn("Redis unavailable for webhook dedup, using in-memory fallback", zap.Error(dedupeErr))
	}

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true

	router.Setup(e, cfg, dispatcher, creds, deduper, logger)

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting paybridge server",
			zap.String("addr", addr),
			zap.String("environment", cfg.PaidYET.Environment),
		)
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
