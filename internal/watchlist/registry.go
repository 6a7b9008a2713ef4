package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RosuMadalin/tracking-tradings/internal/db"
	"github.com/RosuMadalin/tracking-tradings/internal/providers"
)

var (
	ErrEmptySymbol     = errors.New("symbol is required")
	ErrDuplicateSymbol = errors.New("symbol already exists in the watchlist")
	ErrSymbolNotFound  = errors.New("symbol is not in the watchlist")
)

type Store interface {
	AddWatchedSymbol(ctx context.Context, symbol string, addedAt time.Time) (bool, error)
	DeleteWatchedSymbol(ctx context.Context, symbol string) (bool, error)
	ListWatchedSymbols(ctx context.Context) ([]db.WatchedSymbol, error)
}

// Validator confirms that a symbol resolves to a tradable instrument.
type Validator interface {
	FetchQuote(ctx context.Context, symbol string) (providers.Quote, error)
}

// Registry is the set of watched symbols. Uniqueness is enforced on write and
// enumeration preserves insertion order.
type Registry struct {
	store     Store
	validator Validator
	now       func() time.Time
}

func NewRegistry(store Store, validator Validator) *Registry {
	return &Registry{store: store, validator: validator, now: time.Now}
}

func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Add validates and persists symbol. A failed validation blocks the write.
func (r *Registry) Add(ctx context.Context, symbol string) (string, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return "", ErrEmptySymbol
	}

	exists, err := r.Contains(ctx, symbol)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDuplicateSymbol
	}

	if _, err := r.validator.FetchQuote(ctx, symbol); err != nil {
		slog.Warn("symbol validation failed", "symbol", symbol, "error", err)
		return "", fmt.Errorf("validate %s: %w", symbol, err)
	}

	added, err := r.store.AddWatchedSymbol(ctx, symbol, r.now().UTC())
	if err != nil {
		return "", fmt.Errorf("save %s: %w", symbol, err)
	}
	if !added {
		return "", ErrDuplicateSymbol
	}

	slog.Info("symbol added to watchlist", "symbol", symbol)
	return symbol, nil
}

func (r *Registry) Remove(ctx context.Context, symbol string) error {
	symbol = Normalize(symbol)
	if symbol == "" {
		return ErrEmptySymbol
	}

	deleted, err := r.store.DeleteWatchedSymbol(ctx, symbol)
	if err != nil {
		return fmt.Errorf("delete %s: %w", symbol, err)
	}
	if !deleted {
		return ErrSymbolNotFound
	}

	slog.Info("symbol removed from watchlist", "symbol", symbol)
	return nil
}

func (r *Registry) Symbols(ctx context.Context) ([]string, error) {
	rows, err := r.store.ListWatchedSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Symbol)
	}
	return out, nil
}

func (r *Registry) Contains(ctx context.Context, symbol string) (bool, error) {
	symbols, err := r.Symbols(ctx)
	if err != nil {
		return false, err
	}
	symbol = Normalize(symbol)
	for _, s := range symbols {
		if s == symbol {
			return true, nil
		}
	}
	return false, nil
}
