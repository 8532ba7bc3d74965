package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "weather-monitor/internal/api/http"
	"weather-monitor/internal/config"
	"weather-monitor/internal/logging"
	"weather-monitor/internal/scheduler"
	"weather-monitor/internal/store"
	"weather-monitor/internal/weather"
	"weather-monitor/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("config loaded",
		"cities", len(cfg.Cities),
		"fetchInterval", cfg.FetchInterval.String(),
		"aggregateInterval", cfg.AggregateInterval.String())

	// Durable store when a path is configured, in-memory otherwise.
	var summaryStore weather.Store
	if cfg.SQLitePath != "" {
		sqliteStore, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
		defer sqliteStore.Close()
		summaryStore = sqliteStore
		logger.Info("using sqlite store", "path", cfg.SQLitePath)
	} else {
		summaryStore = store.NewMemoryStore()
		logger.Warn("no SQLITE_PATH configured; summaries will not survive restarts")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey)

	service := weather.NewService(summaryStore, provider, weather.CycleConfig{
		Cities:          cfg.Cities,
		AlertThresholdC: cfg.AlertThresholdC,
		FetchTimeout:    cfg.HTTPTimeout,
	}, logger)

	sched := scheduler.New(service, cfg.FetchInterval, cfg.AggregateInterval, logger)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-monitor",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-monitor",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		logger.Info("http listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
