// Command api is the Mind Saathi admin API server. It serves mood analytics
// to the caregiver dashboard and runs the periodic SMS alert jobs.
//
// Usage:
//
//	mindsaathi-api
//	PORT=8080 AUTO_ALERT_ENABLED=true mindsaathi-api

// @title Mind Saathi Admin API
// @version 1.0.0
// @description Mood analytics for the caregiver dashboard and on-demand sad-streak alerts.
// @host localhost:5000
// @BasePath /api
// @schemes http https
// @contact.name Mind Saathi
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/mindsaathi/internal/alerts"
	"github.com/albapepper/mindsaathi/internal/api"
	"github.com/albapepper/mindsaathi/internal/api/handler"
	"github.com/albapepper/mindsaathi/internal/cache"
	"github.com/albapepper/mindsaathi/internal/config"
	"github.com/albapepper/mindsaathi/internal/listener"
	"github.com/albapepper/mindsaathi/internal/mood"
	"github.com/albapepper/mindsaathi/internal/notifications"
	"github.com/albapepper/mindsaathi/internal/store"

	_ "github.com/albapepper/mindsaathi/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to record store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	engine := mood.NewEngine(st, cfg.StoreTimeout)

	cacheOn := cfg.ResponseCacheEnabled() && st.Pool != nil
	if cfg.CacheEnabled && !cacheOn {
		logger.Warn("Response cache disabled: store has no change notifications", "driver", cfg.StoreDriver)
	}
	appCache := cache.New(cacheOn)
	logger.Info("Cache initialized", "enabled", cacheOn)

	// Postgres notifies on every new record.
	if cacheOn {
		go listener.Start(ctx, cfg.DatabaseURL, appCache, logger)
	}

	notifier := newNotifier(cfg, logger)

	// Alert jobs
	scheduler, err := alerts.NewScheduler(ctx, logger)
	if err != nil {
		logger.Error("Failed to create alert scheduler", "error", err)
		os.Exit(1)
	}
	sadness := alerts.NewSadnessJobFromConfig(cfg, engine, notifier, logger)
	night := alerts.NewNightJobFromConfig(cfg, st, notifier, logger)
	if err := alerts.Schedule(scheduler, cfg, sadness, night, logger); err != nil {
		logger.Error("Failed to schedule alert jobs", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	router := api.NewRouter(handler.Deps{
		Engine:      engine,
		Streak:      alerts.NewStreakChecker(engine, notifier, cfg.SadAlertThreshold, logger),
		Cache:       appCache,
		Store:       st,
		StoreDriver: cfg.StoreDriver,
		Logger:      logger,
	}, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Mind Saathi Admin API",
			"addr", addr,
			"environment", cfg.Environment,
			"store", cfg.StoreDriver,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	if err := scheduler.Shutdown(); err != nil {
		logger.Error("Scheduler shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// newNotifier wires the Twilio sender. Missing credentials leave the
// gateway nil: alerts are logged instead of sent.
func newNotifier(cfg *config.Config, logger *slog.Logger) *notifications.Notifier {
	if !cfg.TwilioConfigured() {
		logger.Warn("SMS gateway disabled (set TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN to enable)")
		return notifications.NewNotifier(nil, cfg.TwilioFrom, cfg.AlertPhone)
	}
	sender := notifications.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken,
		cfg.TwilioAPIURL, cfg.SMSRatePerMinute, logger)
	if cfg.TwilioFrom == "" || cfg.AlertPhone == "" {
		logger.Warn("SMS gateway configured but TWILIO_FROM or ALERT_PHONE is missing; scheduled alerts will not be sent")
	}
	return notifications.NewNotifier(sender, cfg.TwilioFrom, cfg.AlertPhone)
}
