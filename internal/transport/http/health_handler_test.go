package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/services"
	"salespulse/internal/shared/testutil"
)

func TestHealthHandler(t *testing.T) {
	failing := map[string]services.HealthChecker{
		"reports": func(context.Context) services.ServiceHealth {
			return services.ServiceHealth{Status: services.StatusNotReady}
		},
	}

	tests := []struct {
		name           string
		checks         map[string]services.HealthChecker
		endpoint       string
		expectedStatus int
		expectedField  string
		expectedValue  interface{}
	}{
		{name: "health", endpoint: "/api/health", expectedStatus: http.StatusOK, expectedField: "status", expectedValue: services.StatusOK},
		{name: "live", endpoint: "/api/health/live", expectedStatus: http.StatusOK, expectedField: "status", expectedValue: services.StatusAlive},
		{name: "ready", endpoint: "/api/health/ready", expectedStatus: http.StatusOK, expectedField: "status", expectedValue: services.StatusReady},
		{name: "not ready", checks: failing, endpoint: "/api/health/ready", expectedStatus: http.StatusServiceUnavailable, expectedField: "status", expectedValue: services.StatusNotReady},
		{name: "version", endpoint: "/api/version", expectedStatus: http.StatusOK, expectedField: "version", expectedValue: "v1.0.0-test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			h := NewHealthHandler(services.NewHealthService("v1.0.0-test", tt.checks, logger), logger)

			r := chi.NewRouter()
			r.Mount("/api/health", h.Routes())
			r.Get("/api/version", h.Version)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.endpoint, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedValue, body[tt.expectedField])
		})
	}
}
