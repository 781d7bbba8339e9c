package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/health"
)

type stubChecker struct {
	size     int
	redisErr error
}

func (s stubChecker) CatalogSize() int { return s.size }

func (s stubChecker) PingRedis(_ context.Context, _ time.Duration) error {
	return s.redisErr
}

func ready(t *testing.T, h health.Handler) (int, map[string]string) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr.Code, body
}

func TestLive(t *testing.T) {
	rr := httptest.NewRecorder()
	health.Handler{}.Live(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func TestReadySuccess(t *testing.T) {
	code, body := ready(t, health.Handler{Checker: stubChecker{size: 3}, RedisTimeout: 50 * time.Millisecond})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body["catalog"])
	require.Equal(t, "ok", body["redis"])
}

func TestReadyEmptyCatalog(t *testing.T) {
	code, body := ready(t, health.Handler{Checker: stubChecker{}})
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "empty", body["catalog"])
}

func TestReadyRedisDown(t *testing.T) {
	code, body := ready(t, health.Handler{Checker: stubChecker{size: 1, redisErr: errors.New("connection refused")}})
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "connection refused", body["redis"])
}

func TestReadinessAfterShutdown(t *testing.T) {
	h := health.Handler{Checker: stubChecker{size: 1}}

	health.SetReady(false)
	t.Cleanup(func() { health.SetReady(true) })
	code, _ := ready(t, h)
	require.Equal(t, http.StatusServiceUnavailable, code)

	health.SetReady(true)
	code, _ = ready(t, h)
	require.Equal(t, http.StatusOK, code)
}
