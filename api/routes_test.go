package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"grain-quality-service/service"
	"grain-quality-service/service/artifact"
	"grain-quality-service/service/config"
	"grain-quality-service/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	cfg := config.DefaultConfig()
	services, err := service.BootstrapWithSource(context.Background(), cfg,
		artifact.NewFileSource(testutil.WriteArtifacts(t)), nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	InitRoute(r, services)
	return r
}

func TestRoutes(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{method: http.MethodGet, path: "/", status: http.StatusOK},
		{method: http.MethodGet, path: "/health", status: http.StatusOK},
		{method: http.MethodGet, path: "/ready", status: http.StatusOK},
		{method: http.MethodGet, path: "/api/v1/features", status: http.StatusOK},
		{method: http.MethodPost, path: "/api/v1/predict", body: `{"features": {"Gluten_content": 1, "Protein_content": 2, "Hardness": 3}}`, status: http.StatusOK},
		{method: http.MethodPost, path: "/api/v1/predict", body: `{"features": {}}`, status: http.StatusBadRequest},
		{method: http.MethodGet, path: "/api/v1/predict", status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRoutes_FeaturesMatchPredictionContract(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/features", nil))

	var body struct {
		ExpectedFeatures []string `json:"expected_features"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, testutil.ExpectedFeatures(), body.ExpectedFeatures)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestRoutes_CORS(t *testing.T) {
	router := newTestRouter(t)

	t.Run("allowed origin preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/predict", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/features", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
