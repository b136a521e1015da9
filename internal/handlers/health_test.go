package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jwebster45206/encounter-engine/internal/storage"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))

	tests := []struct {
		name            string
		setupStorage    func() storage.Storage
		expectedStatus  int
		expectedHealth  string
		expectedStorage string
	}{
		{
			name: "healthy",
			setupStorage: func() storage.Storage {
				return storage.NewMockStorage()
			},
			expectedStatus:  http.StatusOK,
			expectedHealth:  "healthy",
			expectedStorage: "healthy",
		},
		{
			name: "unhealthy storage",
			setupStorage: func() storage.Storage {
				mock := storage.NewMockStorage()
				mock.SetPingError(errors.New("connection failed"))
				return mock
			},
			expectedStatus:  http.StatusServiceUnavailable,
			expectedHealth:  "degraded",
			expectedStorage: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.setupStorage(), logger)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
			}

			var resp HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}

			if resp.Status != tt.expectedHealth {
				t.Errorf("Expected health %q, got %q", tt.expectedHealth, resp.Status)
			}
			if resp.Components["storage"] != tt.expectedStorage {
				t.Errorf("Expected storage %q, got %v", tt.expectedStorage, resp.Components["storage"])
			}
			if resp.Service != "encounter-engine" {
				t.Errorf("Unexpected service name %q", resp.Service)
			}
		})
	}
}
