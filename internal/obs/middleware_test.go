package obs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewHTTPMetrics("toko_pricing", []float64{10, 1}, registry)
	handler := HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req = req.WithContext(WithRoutePattern(req.Context(), "/health/ready"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/health/ready", "204")))
	require.NotZero(t, testutil.CollectAndCount(metrics.ReqDur))
	require.Zero(t, testutil.ToFloat64(metrics.InFlight))
}

func TestHTTPMetricsReuseRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := NewHTTPMetrics("toko_pricing", nil, registry)
	second := NewHTTPMetrics("toko_pricing", nil, registry)
	require.Same(t, first.ReqTotal, second.ReqTotal)
}

func TestPricingMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewPricingMetrics("toko_pricing", registry)

	m.QuoteSucceeded(150, []string{"Bulk discount (3 for 2.50)"})
	m.QuoteFailed("not_found")

	require.Equal(t, 1.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("not_found")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PromotionsApplied.WithLabelValues("Bulk discount (3 for 2.50)")))

	var nilMetrics *PricingMetrics
	nilMetrics.QuoteSucceeded(1, nil)
	nilMetrics.QuoteFailed("invalid")
}

func TestRequestLoggerWritesRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "debug")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger{Logger: logger}.Middleware)
	r.Get("/api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.NotNil(t, zerolog.Ctx(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/apple", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "http_request", entry["message"])
	require.Equal(t, "/api/v1/products/{id}", entry["route"])
	require.EqualValues(t, 200, entry["status"])
	require.NotEmpty(t, entry["request_id"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "bogus")
	logger.Debug().Msg("hidden")
	require.Zero(t, buf.Len())
	logger.Info().Msg("shown")
	require.NotZero(t, buf.Len())
}

func TestParseBucketsCSV(t *testing.T) {
	require.Nil(t, ParseBucketsCSV(" "))
	require.Equal(t, []float64{5, 10}, ParseBucketsCSV("5, x, -1, 10"))
}
