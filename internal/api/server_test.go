package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"printwatch-v0/internal/infrastructure/logger"
	"printwatch-v0/internal/registry"
)

func setupTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()

	reg := registry.New()
	reg.Set("service_up", nil, 1)
	reg.Set("queue_length", nil, 3)

	return NewServer(logger.DefaultLogger(), "0", apiKey, reg, nil)
}

func TestServer_Routes(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		apiKey         string
		headerKey      string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "metrics endpoint open",
			target:         "/metrics",
			expectedStatus: http.StatusOK,
			expectedBody:   "service_up 1",
		},
		{
			name:           "metrics endpoint open with auth configured",
			target:         "/metrics",
			apiKey:         "secret",
			expectedStatus: http.StatusOK,
			expectedBody:   "queue_length 3",
		},
		{
			name:           "health endpoint",
			target:         "/healthz",
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
		{
			name:           "snapshot without key rejected",
			target:         "/api/v1/snapshot",
			apiKey:         "secret",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "snapshot with key accepted",
			target:         "/api/v1/snapshot",
			apiKey:         "secret",
			headerKey:      "secret",
			expectedStatus: http.StatusOK,
			expectedBody:   "service_up",
		},
		{
			name:           "snapshot open without configured key",
			target:         "/api/v1/snapshot",
			expectedStatus: http.StatusOK,
			expectedBody:   "service_up",
		},
		{
			name:           "samples without history store",
			target:         "/api/v1/samples",
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "unknown route",
			target:         "/nope",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupTestServer(t, tt.apiKey)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.headerKey != "" {
				req.Header.Set("X-API-Key", tt.headerKey)
			}
			w := httptest.NewRecorder()
			server.httpServer.Handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, w.Body.String())
			}
		})
	}
}
