package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAPIKeyAuthWithKey(t *testing.T) {
	tests := []struct {
		name           string
		configuredKey  string
		headerKey      string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid API key",
			configuredKey:  "test-api-key",
			headerKey:      "test-api-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing API key header",
			configuredKey:  "test-api-key",
			headerKey:      "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid or missing API key",
		},
		{
			name:           "invalid API key",
			configuredKey:  "test-api-key",
			headerKey:      "wrong-key",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid or missing API key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := APIKeyAuthWithKey(tt.configuredKey)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/samples", nil)
			if tt.headerKey != "" {
				req.Header.Set("X-API-Key", tt.headerKey)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, w.Body.String())
			}
		})
	}
}
