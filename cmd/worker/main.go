package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/RosuMadalin/tracking-tradings/internal/cache"
	"github.com/RosuMadalin/tracking-tradings/internal/config"
	"github.com/RosuMadalin/tracking-tradings/internal/db"
	"github.com/RosuMadalin/tracking-tradings/internal/news"
	"github.com/RosuMadalin/tracking-tradings/internal/prices"
	"github.com/RosuMadalin/tracking-tradings/internal/providers"
	"github.com/RosuMadalin/tracking-tradings/internal/watchlist"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.LoadForWorker()
	if err != nil {
		slog.Error("failed to load worker config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	var slot cache.Tier[[]providers.Article] = cache.NewMemorySlot[[]providers.Article]()
	if cfg.RedisURL != "" {
		client, err := cache.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("redis connection failed, keeping news cache in memory", "error", err)
		} else {
			defer client.Close()
			slot = cache.NewRedisSlot[[]providers.Article](client, cfg.NewsCacheKey)
		}
	}

	provider := providers.NewFromConfig(cfg)
	registry := watchlist.NewRegistry(database, provider)
	priceService := prices.NewService(database, provider, registry, cfg.PriceTTL)
	newsService := news.NewService(registry, provider, slot, cfg.NewsTTL)

	scheduler := prices.NewScheduler(cfg.RefreshInterval, func(ctx context.Context) error {
		return errors.Join(newsService.Refresh(ctx), priceService.Refresh(ctx))
	})

	slog.Info("worker started", "provider", provider.Name(), "interval", cfg.RefreshInterval.String())
	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("worker stopped")
}
