package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Jeffail/gabs/v2"
)

const (
	yahooDefaultBaseURL = "https://yahoo-finance166.p.rapidapi.com"
	yahooDefaultHost    = "yahoo-finance166.p.rapidapi.com"
	yahooProviderName   = "yahoo"
	yahooRegion         = "US"
	yahooSnippetCount   = "500"
)

// YahooProvider talks to the Yahoo Finance API published on RapidAPI.
type YahooProvider struct {
	baseURL string
	host    string
	apiKey  string
	client  *http.Client
}

func NewYahooProvider(baseURL, host, apiKey string) *YahooProvider {
	resolvedBaseURL := strings.TrimRight(baseURL, "/")
	if resolvedBaseURL == "" {
		resolvedBaseURL = yahooDefaultBaseURL
	}
	if host == "" {
		host = yahooDefaultHost
	}

	return &YahooProvider{
		baseURL: resolvedBaseURL,
		host:    host,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *YahooProvider) Name() string {
	return yahooProviderName
}

func (p *YahooProvider) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, &ValidationError{Symbol: symbol, Reason: "symbol is empty"}
	}
	if p.apiKey == "" {
		return Quote{}, fmt.Errorf("yahoo api key is not set")
	}

	query := url.Values{}
	query.Set("region", yahooRegion)
	query.Set("symbol", symbol)

	parsed, err := p.get(ctx, "/api/stock/get-price", query)
	if err != nil {
		return Quote{}, err
	}

	price := parsed.Search("quoteSummary", "result", "0", "price")
	raw, ok := numberAt(price, "regularMarketPrice", "raw")
	if !ok {
		return Quote{}, &ValidationError{Symbol: symbol, Reason: "no regular market price"}
	}

	return Quote{
		Symbol:   symbol,
		Price:    raw,
		Currency: stringAt(price, "currency"),
		Provider: yahooProviderName,
	}, nil
}

func (p *YahooProvider) FetchNews(ctx context.Context, symbols []string) ([]Article, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	if p.apiKey == "" {
		return nil, fmt.Errorf("yahoo api key is not set")
	}

	query := url.Values{}
	query.Set("s", strings.Join(symbols, ","))
	query.Set("region", yahooRegion)
	query.Set("snippetCount", yahooSnippetCount)

	parsed, err := p.get(ctx, "/api/news/list-by-symbol", query)
	if err != nil {
		return nil, err
	}

	stream := parsed.Search("data", "main", "stream")
	if _, ok := stream.Data().([]interface{}); !ok {
		return nil, &APIError{Provider: yahooProviderName, Message: "unexpected news payload: missing data.main.stream"}
	}

	items := stream.Children()
	articles := make([]Article, 0, len(items))
	for _, item := range items {
		content := item.Search("content")
		if content == nil {
			content = item
		}

		snippet := stringAt(content, "snippet")
		if snippet == "" {
			snippet = stringAt(content, "summary")
		}
		link := stringAt(content, "clickThroughUrl", "url")
		if link == "" {
			link = stringAt(content, "canonicalUrl", "url")
		}

		article := Article{
			Title:        stringAt(content, "title"),
			Snippet:      snippet,
			URL:          link,
			ThumbnailURL: stringAt(content, "thumbnail", "resolutions", "0", "url"),
			Publisher:    stringAt(content, "provider", "displayName"),
		}
		if published := stringAt(content, "pubDate"); published != "" {
			if ts, err := time.Parse(time.RFC3339, published); err == nil {
				article.PublishedAt = ts.UTC()
			}
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (p *YahooProvider) get(ctx context.Context, path string, query url.Values) (*gabs.Container, error) {
	endpoint, err := url.Parse(p.baseURL + path)
	if err != nil {
		return nil, err
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", p.apiKey)
	req.Header.Set("X-RapidAPI-Host", p.host)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Provider: yahooProviderName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &APIError{Provider: yahooProviderName, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Provider: yahooProviderName, Err: err}
	}

	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, &APIError{Provider: yahooProviderName, Message: "malformed response body", Err: err}
	}
	return parsed, nil
}

func stringAt(c *gabs.Container, hierarchy ...string) string {
	if c == nil {
		return ""
	}
	s, _ := c.Search(hierarchy...).Data().(string)
	return strings.TrimSpace(s)
}

func numberAt(c *gabs.Container, hierarchy ...string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	switch v := c.Search(hierarchy...).Data().(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
