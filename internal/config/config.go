package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

type Mode string

const (
	ModeWorker Mode = "worker"
	ModeAPI    Mode = "api"
)

const (
	DefaultNewsTTL         = 180 * time.Minute
	DefaultPriceTTL        = 90 * time.Minute
	DefaultRefreshInterval = 5 * time.Minute
	DefaultNewsCacheKey    = "stockNews"
)

// Config holds service configuration shared by the worker and the API server.
type Config struct {
	DatabaseURL          string
	RedisURL             string
	QuoteProviderName    string
	QuoteProviderAPIKey  string
	QuoteProviderHost    string
	QuoteProviderBaseURL string
	NewsTTL              time.Duration
	PriceTTL             time.Duration
	RefreshInterval      time.Duration
	NewsCacheKey         string
	Port                 string
}

func LoadForWorker() (Config, error) {
	return load(ModeWorker)
}

func LoadForAPI() (Config, error) {
	return load(ModeAPI)
}

func load(mode Mode) (Config, error) {
	cfg := Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		QuoteProviderName:    os.Getenv("QUOTE_PROVIDER_NAME"),
		QuoteProviderAPIKey:  os.Getenv("QUOTE_PROVIDER_API_KEY"),
		QuoteProviderHost:    os.Getenv("QUOTE_PROVIDER_HOST"),
		QuoteProviderBaseURL: os.Getenv("QUOTE_PROVIDER_BASE_URL"),
		NewsCacheKey:         envDefault("NEWS_CACHE_KEY", DefaultNewsCacheKey),
		Port:                 envDefault("PORT", "8080"),
	}

	var validationErrs []string
	requireEnv("DATABASE_URL", cfg.DatabaseURL, &validationErrs)

	cfg.NewsTTL = durationEnv("NEWS_TTL", DefaultNewsTTL, &validationErrs)
	cfg.PriceTTL = durationEnv("PRICE_TTL", DefaultPriceTTL, &validationErrs)
	cfg.RefreshInterval = durationEnv("REFRESH_INTERVAL", DefaultRefreshInterval, &validationErrs)

	switch mode {
	case ModeWorker:
		requireEnv("QUOTE_PROVIDER_NAME", cfg.QuoteProviderName, &validationErrs)
		requireEnv("QUOTE_PROVIDER_API_KEY", cfg.QuoteProviderAPIKey, &validationErrs)
	case ModeAPI:
	default:
		validationErrs = append(validationErrs, "unknown service mode")
	}

	if len(validationErrs) > 0 {
		return cfg, errors.New(strings.Join(validationErrs, "; "))
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func requireEnv(name, value string, errs *[]string) {
	if strings.TrimSpace(value) == "" {
		*errs = append(*errs, name+" is required")
	}
}

func durationEnv(name string, fallback time.Duration, errs *[]string) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*errs = append(*errs, name+" must be a positive duration")
		return fallback
	}
	return d
}
