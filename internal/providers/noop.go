package providers

import (
	"context"
	"fmt"
)

type MissingProvider struct {
	Kind string
}

func NewMissingProvider(kind string) MissingProvider {
	return MissingProvider{Kind: kind}
}

func (p MissingProvider) Name() string {
	return "missing"
}

func (p MissingProvider) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	return Quote{}, fmt.Errorf("%s provider not configured", p.Kind)
}

func (p MissingProvider) FetchNews(ctx context.Context, symbols []string) ([]Article, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	return nil, fmt.Errorf("%s provider not configured", p.Kind)
}
