package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

const (
	finnhubProviderName = "finnhub"
	finnhubNewsWindow   = 7 * 24 * time.Hour
)

// FinnhubProvider serves quotes and company news through the Finnhub SDK.
// News for a symbol set is fetched per symbol and concatenated in order.
type FinnhubProvider struct {
	client *finnhub.DefaultApiService
	apiKey string
	now    func() time.Time
}

func NewFinnhubProvider(baseURL, apiKey string) *FinnhubProvider {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		cfg.Servers = finnhub.ServerConfigurations{{URL: baseURL}}
	}

	return &FinnhubProvider{
		client: finnhub.NewAPIClient(cfg).DefaultApi,
		apiKey: apiKey,
		now:    time.Now,
	}
}

func (p *FinnhubProvider) Name() string {
	return finnhubProviderName
}

func (p *FinnhubProvider) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, &ValidationError{Symbol: symbol, Reason: "symbol is empty"}
	}
	if p.apiKey == "" {
		return Quote{}, fmt.Errorf("finnhub api key is not set")
	}

	res, resp, err := p.client.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		return Quote{}, classifyFinnhubError(resp, err)
	}

	// Finnhub answers unknown symbols with an all-zero quote.
	if res.C == nil || *res.C == 0 {
		return Quote{}, &ValidationError{Symbol: symbol, Reason: "no current price"}
	}

	return Quote{
		Symbol:   symbol,
		Price:    float64(*res.C),
		Currency: "USD",
		Provider: finnhubProviderName,
	}, nil
}

func (p *FinnhubProvider) FetchNews(ctx context.Context, symbols []string) ([]Article, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	if p.apiKey == "" {
		return nil, fmt.Errorf("finnhub api key is not set")
	}

	to := p.now().UTC()
	from := to.Add(-finnhubNewsWindow)

	var articles []Article
	for _, symbol := range symbols {
		res, resp, err := p.client.CompanyNews(ctx).
			Symbol(symbol).
			From(from.Format("2006-01-02")).
			To(to.Format("2006-01-02")).
			Execute()
		if err != nil {
			return nil, classifyFinnhubError(resp, err)
		}

		for _, news := range res {
			a := Article{}
			if news.Headline != nil {
				a.Title = *news.Headline
			}
			if news.Summary != nil {
				a.Snippet = *news.Summary
			}
			if news.Url != nil {
				a.URL = *news.Url
			}
			if news.Image != nil {
				a.ThumbnailURL = *news.Image
			}
			if news.Source != nil {
				a.Publisher = *news.Source
			}
			if news.Datetime != nil {
				a.PublishedAt = time.Unix(*news.Datetime, 0).UTC()
			}
			articles = append(articles, a)
		}
	}

	return articles, nil
}

func classifyFinnhubError(resp *http.Response, err error) error {
	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return &APIError{Provider: finnhubProviderName, StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if resp != nil {
		return &APIError{Provider: finnhubProviderName, Message: "malformed response body", Err: err}
	}
	return &NetworkError{Provider: finnhubProviderName, Err: err}
}
