package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"printwatch-v0/internal/history"
	"printwatch-v0/internal/infrastructure/logger"
)

// SampleLister queries the persisted sample history.
type SampleLister interface {
	ListSamples(ctx context.Context, filters history.Filters) ([]history.Row, error)
}

// SamplesHandler handles sample history queries.
type SamplesHandler struct {
	store  SampleLister
	logger *logger.Logger
}

// NewSamplesHandler creates a new samples handler. store may be nil
// when history recording is disabled.
func NewSamplesHandler(store SampleLister, log *logger.Logger) *SamplesHandler {
	return &SamplesHandler{
		store:  store,
		logger: log,
	}
}

// ListSamples handles GET /api/v1/samples with optional name, type,
// from, to (RFC3339), limit and offset query parameters.
func (h *SamplesHandler) ListSamples(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Sample history is disabled")
		return
	}

	filters := history.Filters{}

	if name := r.URL.Query().Get("name"); name != "" {
		filters.Name = &name
	}

	if metricType := r.URL.Query().Get("type"); metricType != "" {
		filters.Type = &metricType
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if from, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filters.From = &from
		}
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if to, err := time.Parse(time.RFC3339, toStr); err == nil {
			filters.To = &to
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}

	samples, err := h.store.ListSamples(r.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list samples", "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to list samples: "+err.Error())
		return
	}

	h.logger.Debug("Listed samples", "count", len(samples))
	respondJSON(w, http.StatusOK, samples)
}
