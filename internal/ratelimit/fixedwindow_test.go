package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedWindowMemoryStore(t *testing.T) {
	store, err := NewStore(nil, "catalog:")
	require.NoError(t, err)
	fw, err := NewFixedWindow(store, "2-M")
	require.NoError(t, err)
	handler := fw.Middleware(ok)

	get := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, get("10.0.0.1:1").Code)
	second := get("10.0.0.1:2")
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := get("10.0.0.1:3")
	require.Equal(t, http.StatusTooManyRequests, third.Code)
	require.Contains(t, third.Body.String(), "RATE_LIMITED")

	require.Equal(t, http.StatusOK, get("10.0.0.2:1").Code)
}

func TestFixedWindowRedisStore(t *testing.T) {
	limiter, _ := newLimiter(t)
	store, err := NewStore(limiter.Client, "catalog:")
	require.NoError(t, err)
	fw, err := NewFixedWindow(store, "1-H")
	require.NoError(t, err)
	handler := fw.Middleware(ok)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req.Clone(req.Context()))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req.Clone(req.Context()))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestFixedWindowDisabledAndInvalid(t *testing.T) {
	store, err := NewStore(nil, "")
	require.NoError(t, err)

	fw, err := NewFixedWindow(store, " ")
	require.NoError(t, err)
	require.Nil(t, fw)

	rec := httptest.NewRecorder()
	fw.Middleware(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = NewFixedWindow(store, "lots")
	require.Error(t, err)
}
