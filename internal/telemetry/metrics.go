package telemetry

import (
	"expvar"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

var (
	apiRequestsTotal         = expvar.NewInt("api_requests_total")
	apiRequestsErrorsTotal   = expvar.NewInt("api_requests_errors_total")
	apiRequestLatencyMsTotal = expvar.NewInt("api_request_latency_ms_total")
	apiRequestLatencySamples = expvar.NewInt("api_request_latency_samples_total")
	apiRequestsByRoute       = expvar.NewMap("api_requests_by_route")
	apiRequestErrorsByRoute  = expvar.NewMap("api_request_errors_by_route")
	cacheHits                = expvar.NewMap("cache_hits")
	cacheMisses              = expvar.NewMap("cache_misses")
	cacheFetchFailures       = expvar.NewMap("cache_fetch_failures")
	cacheTierWriteFailures   = expvar.NewMap("cache_tier_write_failures")
	refreshRunsTotal         = expvar.NewInt("refresh_runs_total")
	refreshFailuresTotal     = expvar.NewInt("refresh_failures_total")
	wsConnectionsActive      = expvar.NewInt("ws_connections_active")
	wsConnectionsTotal       = expvar.NewInt("ws_connections_total")
	wsDroppedMessagesTotal   = expvar.NewInt("ws_dropped_messages_total")
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// APIRequestMetricsMiddleware records request volume, error rate, and latency for /api/v1 routes.
func APIRequestMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		route := requestRoute(r)
		key := strings.TrimSpace(r.Method + " " + route)
		if key == "" {
			key = r.Method + " /unknown"
		}

		apiRequestsTotal.Add(1)
		apiRequestsByRoute.Add(key, 1)

		if recorder.status >= http.StatusBadRequest {
			apiRequestsErrorsTotal.Add(1)
			apiRequestErrorsByRoute.Add(key, 1)
		}

		apiRequestLatencyMsTotal.Add(time.Since(start).Milliseconds())
		apiRequestLatencySamples.Add(1)
	})
}

func requestRoute(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return strings.TrimSpace(r.URL.Path)
}

func CacheHit(namespace string) {
	cacheHits.Add(namespace, 1)
}

func CacheMiss(namespace string) {
	cacheMisses.Add(namespace, 1)
}

func CacheFetchFailure(namespace string) {
	cacheFetchFailures.Add(namespace, 1)
}

func CacheTierWriteFailure(namespace string) {
	cacheTierWriteFailures.Add(namespace, 1)
}

func RefreshRun(err error) {
	refreshRunsTotal.Add(1)
	if err != nil {
		refreshFailuresTotal.Add(1)
	}
}

func WSConnectionOpened() {
	wsConnectionsTotal.Add(1)
	wsConnectionsActive.Add(1)
}

func WSConnectionClosed() {
	wsConnectionsActive.Add(-1)
}

func WSMessageDropped() {
	wsDroppedMessagesTotal.Add(1)
}
