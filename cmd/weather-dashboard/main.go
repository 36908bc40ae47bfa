package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/auth"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/logging"
	"github.com/i474232898/weather-dashboard/internal/notes"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	// run returns instead of exiting so its deferred cleanup always happens.
	err = run(cfg, logg)
	if err != nil {
		logg.Errorw("server exited", "error", err)
	}
	_ = logg.Sync()
	if err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.AppConfig, logg *zap.SugaredLogger) error {
	// Per-call timeouts are applied by the provider.
	httpClient := &http.Client{}

	ow := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.HTTPTimeout, logg)
	if cfg.OpenWeatherAPIKey == "" {
		logg.Warn("OPENWEATHER_API_KEY is not set; weather requests will fail")
	}

	weatherSvc := weather.NewService(ow, ow,
		weather.WithLocation(cfg.Location),
		weather.WithLogger(logg),
	)

	db, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}
	defer db.Close()

	services := httpapi.Services{
		Weather:         weatherSvc,
		Notes:           notes.NewStore(db),
		DefaultLocation: cfg.DefaultLocation,
		Logger:          logg,
	}

	if cfg.AuthEnabled() {
		// Redis expires revocations itself; the in-memory list needs the purge job.
		var (
			revoked store.Revocations
			purger  scheduler.Purger
		)
		if cfg.RedisURL != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			rdb, err := store.ConnectRedis(ctx, cfg.RedisURL)
			cancel()
			if err != nil {
				return fmt.Errorf("connect to redis: %w", err)
			}
			defer rdb.Close()
			revoked = rdb
		} else {
			mem := store.NewMemoryRevocations()
			revoked = mem
			purger = mem
		}

		sched := scheduler.New(purger, cfg.PurgeInterval, logg)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer sched.Stop()

		services.Auth = auth.NewService(db, cfg.JWTSecret, cfg.SessionTTL, revoked, logg)
	} else {
		logg.Warn("JWT_SECRET is not set; serving read-only notes without accounts")
	}

	app := httpapi.NewApp(logg)
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, services)

	go func() {
		logg.Infow("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logg.Infow("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
