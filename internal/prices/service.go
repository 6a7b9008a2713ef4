package prices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/RosuMadalin/tracking-tradings/internal/cache"
	"github.com/RosuMadalin/tracking-tradings/internal/db"
	"github.com/RosuMadalin/tracking-tradings/internal/providers"
)

const NotAvailable = "N/A"

type Store interface {
	LatestStockData(ctx context.Context, symbol string) (db.StockData, bool, error)
	InsertStockData(ctx context.Context, data db.StockData) (int64, error)
}

type SymbolSource interface {
	Symbols(ctx context.Context) ([]string, error)
}

// Publisher receives every price resolved during a refresh.
type Publisher interface {
	Publish(symbol string, price float64, fetchedAt time.Time)
}

type View struct {
	Symbol    string
	Price     float64
	Provider  string
	FetchedAt time.Time
	Cached    bool
}

func (v View) Display() string {
	return strconv.FormatFloat(v.Price, 'f', -1, 64) + " $"
}

type Service struct {
	quotes    providers.QuoteProvider
	symbols   SymbolSource
	resolver  *cache.Resolver[providers.Quote]
	ttl       time.Duration
	publisher Publisher
}

func NewService(store Store, quotes providers.QuoteProvider, symbols SymbolSource, ttl time.Duration) *Service {
	return &Service{
		quotes:   quotes,
		symbols:  symbols,
		resolver: cache.NewResolver[providers.Quote]("price", durableTier{store: store}),
		ttl:      ttl,
	}
}

func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.resolver.WithClock(now)
	return s
}

// Price resolves the latest price for symbol, serving the durable copy while
// it is younger than the price TTL.
func (s *Service) Price(ctx context.Context, symbol string) (View, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return View{}, &providers.ValidationError{Symbol: symbol, Reason: "symbol is empty"}
	}

	entry, outcome, err := s.resolver.Resolve(ctx, symbol, s.ttl, func(ctx context.Context) (providers.Quote, error) {
		return s.quotes.FetchQuote(ctx, symbol)
	})
	if err != nil {
		return View{}, fmt.Errorf("price %s: %w", symbol, err)
	}

	return View{
		Symbol:    symbol,
		Price:     entry.Payload.Price,
		Provider:  entry.Payload.Provider,
		FetchedAt: entry.FetchedAt,
		Cached:    outcome == cache.OutcomeHit,
	}, nil
}

// Display renders the price for a watchlist row, falling back to "N/A".
func (s *Service) Display(ctx context.Context, symbol string) string {
	view, err := s.Price(ctx, symbol)
	if err != nil {
		slog.Error("error fetching stock price", "symbol", symbol, "error", err)
		return NotAvailable
	}
	return view.Display()
}

// Refresh resolves every watched symbol in order and publishes the results.
// One symbol failing does not stop the others.
func (s *Service) Refresh(ctx context.Context) error {
	symbols, err := s.symbols.Symbols(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		view, err := s.Price(ctx, symbol)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if s.publisher != nil {
			s.publisher.Publish(view.Symbol, view.Price, view.FetchedAt)
		}
	}

	return errors.Join(errs...)
}
