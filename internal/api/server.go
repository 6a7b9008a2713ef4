package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RosuMadalin/tracking-tradings/internal/news"
	"github.com/RosuMadalin/tracking-tradings/internal/prices"
	"github.com/RosuMadalin/tracking-tradings/internal/providers"
	"github.com/RosuMadalin/tracking-tradings/internal/telemetry"
	"github.com/RosuMadalin/tracking-tradings/internal/watchlist"
	"github.com/go-chi/chi/v5"
)

const maxNewsLimit = 50

type Server struct {
	Watchlist Watchlist
	Prices    PriceSource
	News      NewsSource
}

type Watchlist interface {
	Add(ctx context.Context, symbol string) (string, error)
	Remove(ctx context.Context, symbol string) error
	Symbols(ctx context.Context) ([]string, error)
}

type PriceSource interface {
	Price(ctx context.Context, symbol string) (prices.View, error)
}

type NewsSource interface {
	Digest(ctx context.Context) (news.Digest, error)
}

func NewServer(watchlist Watchlist, priceSource PriceSource, newsSource NewsSource) *Server {
	return &Server{Watchlist: watchlist, Prices: priceSource, News: newsSource}
}

func (s *Server) Mount(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(telemetry.APIRequestMetricsMiddleware)
		r.Get("/watchlist", s.handleListWatchlist)
		r.Post("/watchlist", s.handleAddSymbol)
		r.Delete("/watchlist/{symbol}", s.handleRemoveSymbol)
		r.Get("/prices/{symbol}", s.handleGetPrice)
		r.Get("/news", s.handleGetNews)
	})
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiError{Error: message})
}

func decodeJSONBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

type symbolResponse struct {
	Symbol string `json:"symbol"`
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	symbols, err := s.Watchlist.Symbols(r.Context())
	if err != nil {
		slog.Error("failed to list watchlist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load watchlist")
		return
	}

	response := make([]symbolResponse, 0, len(symbols))
	for _, symbol := range symbols {
		response = append(response, symbolResponse{Symbol: symbol})
	}
	writeJSON(w, http.StatusOK, response)
}

type addSymbolRequest struct {
	Symbol string `json:"symbol"`
}

func (s *Server) handleAddSymbol(w http.ResponseWriter, r *http.Request) {
	var req addSymbolRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	symbol, err := s.Watchlist.Add(r.Context(), req.Symbol)
	if err != nil {
		status, message := classifyAddError(err)
		if status >= http.StatusInternalServerError {
			slog.Error("failed to add symbol", "symbol", req.Symbol, "error", err)
		}
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusCreated, symbolResponse{Symbol: symbol})
}

func classifyAddError(err error) (int, string) {
	var (
		validationErr *providers.ValidationError
		networkErr    *providers.NetworkError
		apiErr        *providers.APIError
	)
	switch {
	case errors.Is(err, watchlist.ErrEmptySymbol):
		return http.StatusBadRequest, "symbol is required"
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, watchlist.ErrDuplicateSymbol):
		return http.StatusConflict, "symbol already exists in the watchlist"
	case errors.As(err, &networkErr), errors.As(err, &apiErr):
		return http.StatusBadGateway, "quote provider unavailable"
	default:
		return http.StatusInternalServerError, "failed to add symbol"
	}
}

func (s *Server) handleRemoveSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(chi.URLParam(r, "symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	err := s.Watchlist.Remove(r.Context(), symbol)
	switch {
	case errors.Is(err, watchlist.ErrSymbolNotFound):
		writeError(w, http.StatusNotFound, "symbol not found")
		return
	case errors.Is(err, watchlist.ErrEmptySymbol):
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	case err != nil:
		slog.Error("failed to remove symbol", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove symbol")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type priceResponse struct {
	Symbol    string   `json:"symbol"`
	Price     *float64 `json:"price"`
	Display   string   `json:"display"`
	FetchedAt *string  `json:"fetched_at"`
	Cached    bool     `json:"cached"`
}

func (s *Server) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := watchlist.Normalize(chi.URLParam(r, "symbol"))

	view, err := s.Prices.Price(r.Context(), symbol)
	if err != nil {
		slog.Warn("price unavailable", "symbol", symbol, "error", err)
		writeJSON(w, http.StatusOK, priceResponse{Symbol: symbol, Display: prices.NotAvailable})
		return
	}

	price := view.Price
	fetchedAt := view.FetchedAt.UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, priceResponse{
		Symbol:    view.Symbol,
		Price:     &price,
		Display:   view.Display(),
		FetchedAt: &fetchedAt,
		Cached:    view.Cached,
	})
}

type newsResponse struct {
	Symbols  []string    `json:"symbols"`
	Articles []news.Card `json:"articles"`
}

func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	limit := news.DefaultLimit
	if rawLimit := strings.TrimSpace(r.URL.Query().Get("limit")); rawLimit != "" {
		parsedLimit, err := strconv.Atoi(rawLimit)
		if err != nil || parsedLimit <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsedLimit > maxNewsLimit {
			parsedLimit = maxNewsLimit
		}
		limit = parsedLimit
	}

	digest, err := s.News.Digest(r.Context())
	if err != nil {
		slog.Warn("news unavailable", "error", err)
		writeJSON(w, http.StatusOK, newsResponse{Symbols: []string{}, Articles: []news.Card{}})
		return
	}

	symbols := digest.Symbols
	if symbols == nil {
		symbols = []string{}
	}
	writeJSON(w, http.StatusOK, newsResponse{
		Symbols:  symbols,
		Articles: news.Cards(digest.Articles, limit),
	})
}
