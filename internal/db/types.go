package db

import "time"

type WatchedSymbol struct {
	Symbol  string
	AddedAt time.Time
}

type StockData struct {
	ID        int64
	Symbol    string
	Price     float64
	FetchedAt time.Time
	Provider  string
}
