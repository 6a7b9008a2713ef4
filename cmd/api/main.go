package main

import (
	"context"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RosuMadalin/tracking-tradings/internal/api"
	"github.com/RosuMadalin/tracking-tradings/internal/cache"
	"github.com/RosuMadalin/tracking-tradings/internal/config"
	"github.com/RosuMadalin/tracking-tradings/internal/db"
	"github.com/RosuMadalin/tracking-tradings/internal/news"
	"github.com/RosuMadalin/tracking-tradings/internal/prices"
	"github.com/RosuMadalin/tracking-tradings/internal/providers"
	"github.com/RosuMadalin/tracking-tradings/internal/watchlist"
	"github.com/RosuMadalin/tracking-tradings/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.LoadForAPI()
	if err != nil {
		slog.Error("failed to load api config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	slot, closeSlot := newsSlot(ctx, cfg)
	defer closeSlot()

	provider := providers.NewFromConfig(cfg)
	registry := watchlist.NewRegistry(database, provider)
	hub := ws.NewHub()
	priceService := prices.NewService(database, provider, registry, cfg.PriceTTL).WithPublisher(hub)
	newsService := news.NewService(registry, provider, slot, cfg.NewsTTL)

	router := chi.NewRouter()
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/debug/vars", expvar.Handler())
	router.Get("/ws", ws.NewServer(hub).Handler())
	api.NewServer(registry, priceService, newsService).Mount(router)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	scheduler := prices.NewScheduler(cfg.RefreshInterval, func(ctx context.Context) error {
		return errors.Join(newsService.Refresh(ctx), priceService.Refresh(ctx))
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("api server started", "port", cfg.Port, "provider", provider.Name())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := scheduler.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("api server terminated unexpectedly", "error", err)
		os.Exit(1)
	}
	slog.Info("api server stopped")
}

func newsSlot(ctx context.Context, cfg config.Config) (cache.Tier[[]providers.Article], func()) {
	if cfg.RedisURL == "" {
		slog.Info("REDIS_URL not set, keeping news cache in memory")
		return cache.NewMemorySlot[[]providers.Article](), func() {}
	}

	client, err := cache.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		slog.Warn("redis connection failed, keeping news cache in memory", "error", err)
		return cache.NewMemorySlot[[]providers.Article](), func() {}
	}
	return cache.NewRedisSlot[[]providers.Article](client, cfg.NewsCacheKey), func() { _ = client.Close() }
}
