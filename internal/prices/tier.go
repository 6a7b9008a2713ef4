package prices

import (
	"context"

	"github.com/RosuMadalin/tracking-tradings/internal/cache"
	"github.com/RosuMadalin/tracking-tradings/internal/db"
	"github.com/RosuMadalin/tracking-tradings/internal/providers"
)

// durableTier adapts the append-only stock_data collection to a cache tier.
// The latest row for a symbol is the entry; a store appends a new row.
type durableTier struct {
	store Store
}

func (t durableTier) Name() string {
	return "stock_data"
}

func (t durableTier) Lookup(ctx context.Context, keyContext string) (cache.Entry[providers.Quote], bool, error) {
	data, ok, err := t.store.LatestStockData(ctx, keyContext)
	if err != nil || !ok {
		return cache.Entry[providers.Quote]{}, false, err
	}
	return cache.Entry[providers.Quote]{
		Payload: providers.Quote{
			Symbol:   data.Symbol,
			Price:    data.Price,
			Provider: data.Provider,
		},
		FetchedAt:  data.FetchedAt,
		KeyContext: data.Symbol,
	}, true, nil
}

func (t durableTier) Store(ctx context.Context, entry cache.Entry[providers.Quote]) error {
	_, err := t.store.InsertStockData(ctx, db.StockData{
		Symbol:    entry.KeyContext,
		Price:     entry.Payload.Price,
		FetchedAt: entry.FetchedAt,
		Provider:  entry.Payload.Provider,
	})
	return err
}
