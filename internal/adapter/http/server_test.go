package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/wsd3/rivercall/internal/adapter/http"
	"github.com/wsd3/rivercall/internal/pipeline"
)

type mockStatus struct {
	readyErr error
	last     *pipeline.Result
}

func (m *mockStatus) CheckReadiness(_ context.Context) error { return m.readyErr }
func (m *mockStatus) LastResult() *pipeline.Result           { return m.last }

func newTestServer(source *mockStatus) *httpadapter.Server {
	return httpadapter.NewServer(":0", source, slog.Default())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockStatus{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReflectsPipelineState(t *testing.T) {
	t.Run("ready after a run", func(t *testing.T) {
		srv := newTestServer(&mockStatus{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("503 before the first run", func(t *testing.T) {
		srv := newTestServer(&mockStatus{readyErr: fmt.Errorf("no batch run has completed yet")})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not ready", body["status"])
		assert.Equal(t, "no batch run has completed yet", body["error"])
	})
}

func TestLastRun(t *testing.T) {
	t.Run("404 before the first run", func(t *testing.T) {
		srv := newTestServer(&mockStatus{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/lastrun", nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("reports the latest result", func(t *testing.T) {
		srv := newTestServer(&mockStatus{last: &pipeline.Result{
			RunID:        "run-1",
			ManifestRows: 42,
		}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/lastrun", nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body pipeline.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "run-1", body.RunID)
		assert.Equal(t, 42, body.ManifestRows)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockStatus{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
