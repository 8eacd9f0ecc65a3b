package api

import (
	"net/http"

	"github.com/yourusername/checkpoint/metrics"
	"github.com/yourusername/checkpoint/pkg/checkpoint"
)

// MetricsProvider defines the interface for getting metrics
type MetricsProvider interface {
	GetSnapshot() *metrics.Snapshot
}

// MetricsHandler handles GET /metrics requests
type MetricsHandler struct {
	provider MetricsProvider
	limiter  *checkpoint.Limiter
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(provider MetricsProvider, limiter *checkpoint.Limiter) *MetricsHandler {
	return &MetricsHandler{provider: provider, limiter: limiter}
}

// ServeHTTP handles the metrics endpoint
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := struct {
		*metrics.Snapshot
		TrackedKeys int `json:"tracked_keys"`
	}{
		Snapshot:    h.provider.GetSnapshot(),
		TrackedKeys: h.limiter.Size(),
	}
	writeJSON(w, http.StatusOK, response)
}
