package db

import (
	"context"
	"time"
)

// AddWatchedSymbol inserts symbol as a new document. It reports false when the
// symbol is already present; the existing row is left as is.
func (d *DB) AddWatchedSymbol(ctx context.Context, symbol string, addedAt time.Time) (bool, error) {
	tag, err := d.pool.Exec(ctx, `
		insert into public.watchlist (symbol, added_at)
		values ($1, $2)
		on conflict (symbol) do nothing
	`, symbol, addedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (d *DB) DeleteWatchedSymbol(ctx context.Context, symbol string) (bool, error) {
	tag, err := d.pool.Exec(ctx, `
		delete from public.watchlist
		where symbol = $1
	`, symbol)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (d *DB) ListWatchedSymbols(ctx context.Context) ([]WatchedSymbol, error) {
	rows, err := d.pool.Query(ctx, `
		select symbol, added_at
		from public.watchlist
		order by added_at, symbol
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []WatchedSymbol
	for rows.Next() {
		var s WatchedSymbol
		if err := rows.Scan(&s.Symbol, &s.AddedAt); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
