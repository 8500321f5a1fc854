package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/middleware"

	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	rdb, _ := redismock.NewClientMock()
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	cfg := &config.Config{
		AllowedOrigins: []string{"https://gymlog.example.com"},
	}
	s := newServer(cfg, nil, rdb, prometheus.NewRegistry(), "4f2c9e1")
	return s, s.routerSetup()
}

func TestServer_routerSetup(t *testing.T) {
	s, router := newTestRouter(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		origin         string
		expectedStatus int
	}{
		{name: "Root", method: http.MethodGet, path: "/", expectedStatus: http.StatusOK},
		{name: "Version", method: http.MethodGet, path: "/version", expectedStatus: http.StatusOK},
		{name: "DashboardNoToken", method: http.MethodGet, path: "/dashboard", expectedStatus: http.StatusUnauthorized},
		{name: "ReorderNoToken", method: http.MethodPost, path: "/plans/3/reorder", expectedStatus: http.StatusUnauthorized},
		{name: "McpNoToken", method: http.MethodPost, path: "/mcp", expectedStatus: http.StatusUnauthorized},
		{name: "Preflight", method: http.MethodOptions, path: "/logs", origin: "https://gymlog.example.com", expectedStatus: http.StatusOK},
		{name: "ForeignOrigin", method: http.MethodGet, path: "/version", origin: "https://evil.example.com", expectedStatus: http.StatusForbidden},
		{name: "Unknown", method: http.MethodGet, path: "/nope", expectedStatus: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
		})
	}

	// dashboard and the unknown path
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metricsManager.CounterRequests.WithLabelValues("GET", "401")))
}

func TestServer_routerSetup_PreflightHeaders(t *testing.T) {
	_, router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/plans/3/reorder", nil)
	req.Header.Set("Origin", "https://gymlog.example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://gymlog.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "X-GYMLOG-TOKEN")
}
