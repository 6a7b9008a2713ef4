package db

import "context"

const schema = `
create table if not exists public.watchlist (
	symbol   text primary key,
	added_at timestamptz not null default now()
);

create table if not exists public.stock_data (
	id         bigserial primary key,
	symbol     text not null,
	price      double precision not null,
	fetched_at timestamptz not null,
	provider   text not null default ''
);

create index if not exists stock_data_symbol_fetched_at_idx
	on public.stock_data (symbol, fetched_at desc);
`

// EnsureSchema creates the watchlist and stock_data tables when missing.
func (d *DB) EnsureSchema(ctx context.Context) error {
	_, err := d.pool.Exec(ctx, schema)
	return err
}
