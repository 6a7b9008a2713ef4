package watchlist

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/RosuMadalin/tracking-tradings/internal/db"
	"github.com/RosuMadalin/tracking-tradings/internal/providers"
)

type mockStore struct {
	rows []db.WatchedSymbol

	addErr    error
	addCalls  []string
	deleteErr error
	listErr   error
}

func (m *mockStore) AddWatchedSymbol(ctx context.Context, symbol string, addedAt time.Time) (bool, error) {
	m.addCalls = append(m.addCalls, symbol)
	if m.addErr != nil {
		return false, m.addErr
	}
	for _, row := range m.rows {
		if row.Symbol == symbol {
			return false, nil
		}
	}
	m.rows = append(m.rows, db.WatchedSymbol{Symbol: symbol, AddedAt: addedAt})
	return true, nil
}

func (m *mockStore) DeleteWatchedSymbol(ctx context.Context, symbol string) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	for i, row := range m.rows {
		if row.Symbol == symbol {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) ListWatchedSymbols(ctx context.Context) ([]db.WatchedSymbol, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]db.WatchedSymbol, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

type mockValidator struct {
	err   error
	calls []string
}

func (m *mockValidator) FetchQuote(ctx context.Context, symbol string) (providers.Quote, error) {
	m.calls = append(m.calls, symbol)
	if m.err != nil {
		return providers.Quote{}, m.err
	}
	return providers.Quote{Symbol: symbol, Price: 100}, nil
}

func TestRegistryAddNormalizesAndPersists(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	validator := &mockValidator{}
	r := NewRegistry(store, validator)

	symbol, err := r.Add(context.Background(), "  aapl ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if symbol != "AAPL" {
		t.Fatalf("expected normalized symbol AAPL, got %q", symbol)
	}
	if len(validator.calls) != 1 || validator.calls[0] != "AAPL" {
		t.Fatalf("expected validation of AAPL, got %v", validator.calls)
	}
	if len(store.rows) != 1 || store.rows[0].Symbol != "AAPL" {
		t.Fatalf("expected AAPL stored, got %+v", store.rows)
	}
}

func TestRegistryAddRejectsEmptySymbol(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	validator := &mockValidator{}
	r := NewRegistry(store, validator)

	if _, err := r.Add(context.Background(), "   "); !errors.Is(err, ErrEmptySymbol) {
		t.Fatalf("expected ErrEmptySymbol, got %v", err)
	}
	if len(validator.calls) != 0 || len(store.addCalls) != 0 {
		t.Fatalf("expected no validation or write, got validator=%d store=%d", len(validator.calls), len(store.addCalls))
	}
}

func TestRegistryAddRejectsDuplicateBeforeValidation(t *testing.T) {
	t.Parallel()

	store := &mockStore{rows: []db.WatchedSymbol{{Symbol: "MSFT"}}}
	validator := &mockValidator{}
	r := NewRegistry(store, validator)

	if _, err := r.Add(context.Background(), "msft"); !errors.Is(err, ErrDuplicateSymbol) {
		t.Fatalf("expected ErrDuplicateSymbol, got %v", err)
	}
	if len(validator.calls) != 0 {
		t.Fatalf("expected duplicate to short-circuit validation, got %v", validator.calls)
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected store unchanged, got %+v", store.rows)
	}
}

func TestRegistryAddValidationFailureBlocksWrite(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	validator := &mockValidator{err: &providers.ValidationError{Symbol: "ZZZZ", Reason: "no regular market price"}}
	r := NewRegistry(store, validator)

	_, err := r.Add(context.Background(), "zzzz")

	var validationErr *providers.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.addCalls) != 0 || len(store.rows) != 0 {
		t.Fatalf("expected no write after failed validation, got calls=%v rows=%+v", store.addCalls, store.rows)
	}
}

func TestRegistryAddProviderOutageBlocksWrite(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	validator := &mockValidator{err: &providers.NetworkError{Provider: "yahoo", Err: errors.New("dial tcp: timeout")}}
	r := NewRegistry(store, validator)

	_, err := r.Add(context.Background(), "AAPL")

	var netErr *providers.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected network error, got %v", err)
	}
	if len(store.addCalls) != 0 {
		t.Fatalf("expected no write, got %v", store.addCalls)
	}
}

func TestRegistryAddStoreFailure(t *testing.T) {
	t.Parallel()

	store := &mockStore{addErr: errors.New("connection reset")}
	r := NewRegistry(store, &mockValidator{})

	_, err := r.Add(context.Background(), "AAPL")
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestRegistrySymbolsPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	r := NewRegistry(store, &mockValidator{})

	for _, s := range []string{"GOOGL", "AMZN", "TSLA"} {
		if _, err := r.Add(context.Background(), s); err != nil {
			t.Fatalf("add %s failed: %v", s, err)
		}
	}

	symbols, err := r.Symbols(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Join(symbols, ",") != "GOOGL,AMZN,TSLA" {
		t.Fatalf("unexpected symbol order: %v", symbols)
	}
}

func TestRegistryRemove(t *testing.T) {
	t.Parallel()

	store := &mockStore{rows: []db.WatchedSymbol{{Symbol: "AMZN"}, {Symbol: "GOOGL"}}}
	r := NewRegistry(store, &mockValidator{})

	if err := r.Remove(context.Background(), "amzn"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := r.Remove(context.Background(), "AMZN"); !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}

	symbols, _ := r.Symbols(context.Background())
	if len(symbols) != 1 || symbols[0] != "GOOGL" {
		t.Fatalf("unexpected remaining symbols: %v", symbols)
	}
}

func TestRegistryListFailure(t *testing.T) {
	t.Parallel()

	store := &mockStore{listErr: errors.New("store unavailable")}
	r := NewRegistry(store, &mockValidator{})

	if _, err := r.Symbols(context.Background()); err == nil || !strings.Contains(err.Error(), "store unavailable") {
		t.Fatalf("expected list error, got %v", err)
	}
	if _, err := r.Add(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected add to fail when listing fails")
	}
}
