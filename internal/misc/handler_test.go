package misc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_HandleRoot(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHandler("abc").HandleRoot(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "I'm OK, thanks ;)", rr.Body.String())
}

func TestHandler_HandleVersion(t *testing.T) {
	testCases := []struct {
		name            string
		versionInfo     string
		expectedVersion string
	}{
		{name: "CommitHash", versionInfo: "4f2c9e1", expectedVersion: "4f2c9e1"},
		{name: "Unknown", versionInfo: "", expectedVersion: "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewHandler(tc.versionInfo).HandleVersion(rr, httptest.NewRequest(http.MethodGet, "/version", nil))
			require.Equal(t, http.StatusOK, rr.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tc.expectedVersion, resp["version"])
			assert.NotEmpty(t, resp["uptime"])
		})
	}
}
