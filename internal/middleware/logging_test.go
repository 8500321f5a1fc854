package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymlog/internal/middleware"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRequest_RequestID(t *testing.T) {
	handler := middleware.LogRequest()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/version", nil))
	generated := rr.Header().Get(middleware.RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)

	known := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set(middleware.RequestIDHeader, known)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, known, rr.Header().Get(middleware.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set(middleware.RequestIDHeader, "not-a-uuid")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.NotEqual(t, "not-a-uuid", rr.Header().Get(middleware.RequestIDHeader))
}
