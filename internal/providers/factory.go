package providers

import (
	"strings"

	"github.com/RosuMadalin/tracking-tradings/internal/config"
)

func NewFromConfig(cfg config.Config) Provider {
	name := strings.TrimSpace(strings.ToLower(cfg.QuoteProviderName))

	switch name {
	case "yahoo", "rapidapi":
		return NewYahooProvider(cfg.QuoteProviderBaseURL, cfg.QuoteProviderHost, cfg.QuoteProviderAPIKey)
	case "finnhub":
		return NewFinnhubProvider(cfg.QuoteProviderBaseURL, cfg.QuoteProviderAPIKey)
	default:
		return NewMissingProvider("quote")
	}
}
