package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/noah-isme/toko-pricing/internal/common"
)

var notReady atomic.Bool

// SetReady toggles readiness; the server flips it off when shutdown begins.
func SetReady(ready bool) { notReady.Store(!ready) }

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	// CatalogSize returns the number of loaded products.
	CatalogSize() int
	// PingRedis probes the snapshot store. Implementations without Redis return nil.
	PingRedis(ctx context.Context, timeout time.Duration) error
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker      Checker
	RedisTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness: the catalog holds products and Redis answers when configured.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if notReady.Load() {
		common.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "shutting down"})
		return
	}
	if h.Checker == nil {
		common.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "dependencies unavailable"})
		return
	}

	catalogStatus := "ok"
	if h.Checker.CatalogSize() == 0 {
		catalogStatus = "empty"
	}
	redisStatus := "ok"
	if err := h.Checker.PingRedis(r.Context(), h.redisTimeout()); err != nil {
		redisStatus = err.Error()
	}

	status := http.StatusOK
	if catalogStatus != "ok" || redisStatus != "ok" {
		status = http.StatusServiceUnavailable
	}
	common.JSON(w, status, map[string]string{
		"catalog": catalogStatus,
		"redis":   redisStatus,
	})
}

func (h Handler) redisTimeout() time.Duration {
	if h.RedisTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.RedisTimeout
}
