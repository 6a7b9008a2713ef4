package providers

import (
	"context"
	"time"
)

type Quote struct {
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`
	Provider string  `json:"provider"`
}

// Article is a news record as returned by a provider. Absent fields are left
// empty; display defaults are applied by the news package.
type Article struct {
	Title        string    `json:"title,omitempty"`
	Snippet      string    `json:"snippet,omitempty"`
	URL          string    `json:"url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Publisher    string    `json:"publisher,omitempty"`
	PublishedAt  time.Time `json:"published_at,omitempty"`
}

type QuoteProvider interface {
	Name() string
	FetchQuote(ctx context.Context, symbol string) (Quote, error)
}

type NewsProvider interface {
	Name() string
	FetchNews(ctx context.Context, symbols []string) ([]Article, error)
}

type Provider interface {
	QuoteProvider
	NewsProvider
}
