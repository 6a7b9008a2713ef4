package news

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RosuMadalin/tracking-tradings/internal/cache"
	"github.com/RosuMadalin/tracking-tradings/internal/providers"
)

type SymbolSource interface {
	Symbols(ctx context.Context) ([]string, error)
}

type Digest struct {
	Symbols    []string
	KeyContext string
	Articles   []providers.Article
	FetchedAt  time.Time
	Cached     bool
}

// Service resolves one batched news request for the whole watchlist. The
// cached batch is only reused for the exact same symbol list.
type Service struct {
	symbols  SymbolSource
	news     providers.NewsProvider
	resolver *cache.Resolver[[]providers.Article]
	ttl      time.Duration
}

func NewService(symbols SymbolSource, news providers.NewsProvider, slot cache.Tier[[]providers.Article], ttl time.Duration) *Service {
	return &Service{
		symbols:  symbols,
		news:     news,
		resolver: cache.NewResolver[[]providers.Article]("news", slot),
		ttl:      ttl,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.resolver.WithClock(now)
	return s
}

// KeyContext is the cache scope for a symbol list, in registry order.
func KeyContext(symbols []string) string {
	return strings.Join(symbols, ",")
}

func (s *Service) Digest(ctx context.Context) (Digest, error) {
	symbols, err := s.symbols.Symbols(ctx)
	if err != nil {
		return Digest{}, err
	}
	if len(symbols) == 0 {
		slog.Warn("no watchlist symbols found, skipping news")
		return Digest{Symbols: []string{}}, nil
	}

	key := KeyContext(symbols)
	entry, outcome, err := s.resolver.Resolve(ctx, key, s.ttl, func(ctx context.Context) ([]providers.Article, error) {
		return s.news.FetchNews(ctx, symbols)
	})
	if err != nil {
		return Digest{Symbols: symbols, KeyContext: key}, fmt.Errorf("news for %s: %w", key, err)
	}

	if outcome == cache.OutcomeHit {
		slog.Debug("loaded news from cache", "symbols", key)
	} else {
		slog.Info("fetched news from provider", "symbols", key, "articles", len(entry.Payload))
	}

	return Digest{
		Symbols:    symbols,
		KeyContext: key,
		Articles:   entry.Payload,
		FetchedAt:  entry.FetchedAt,
		Cached:     outcome == cache.OutcomeHit,
	}, nil
}

func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.Digest(ctx)
	return err
}
