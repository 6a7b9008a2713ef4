package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// LatestStockData returns the most recently fetched row for symbol.
func (d *DB) LatestStockData(ctx context.Context, symbol string) (StockData, bool, error) {
	row := d.pool.QueryRow(ctx, `
		select id, symbol, price, fetched_at, provider
		from public.stock_data
		where symbol = $1
		order by fetched_at desc
		limit 1
	`, symbol)

	var data StockData
	if err := row.Scan(&data.ID, &data.Symbol, &data.Price, &data.FetchedAt, &data.Provider); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockData{}, false, nil
		}
		return StockData{}, false, err
	}
	return data, true, nil
}

// InsertStockData appends a price row. Rows are never updated in place.
func (d *DB) InsertStockData(ctx context.Context, data StockData) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx, `
		insert into public.stock_data (symbol, price, fetched_at, provider)
		values ($1, $2, $3, $4)
		returning id
	`, data.Symbol, data.Price, data.FetchedAt, data.Provider).Scan(&id)
	return id, err
}
