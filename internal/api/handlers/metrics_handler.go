package handlers

import (
	"net/http"

	"printwatch-v0/internal/infrastructure/logger"
	"printwatch-v0/internal/registry"
)

// Snapshotter provides the current metric values for exposition.
type Snapshotter interface {
	Snapshot() []registry.Metric
}

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler struct {
	reg    Snapshotter
	logger *logger.Logger
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(reg Snapshotter, log *logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		reg:    reg,
		logger: log,
	}
}

// Scrape handles GET /metrics. It renders the latest completed
// snapshot; the payload may be slightly stale relative to an in-flight
// collection pass but is never torn.
func (h *MetricsHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	snapshot := h.reg.Snapshot()

	w.Header().Set("Content-Type", registry.ContentType)
	if err := registry.WriteExposition(w, snapshot); err != nil {
		// Headers are already sent; all we can do is log.
		h.logger.Error("Failed to write exposition payload", "err", err)
	}
}

// Snapshot handles GET /api/v1/snapshot, returning the registry
// contents as JSON.
func (h *MetricsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := h.reg.Snapshot()

	type metricResponse struct {
		Name   string            `json:"name"`
		Type   string            `json:"type"`
		Labels map[string]string `json:"labels,omitempty"`
		Value  float64           `json:"value"`
	}

	out := make([]metricResponse, 0, len(snapshot))
	for _, m := range snapshot {
		out = append(out, metricResponse{
			Name:   m.Name,
			Type:   string(m.Kind),
			Labels: m.Labels,
			Value:  m.Value,
		})
	}
	respondJSON(w, http.StatusOK, out)
}
