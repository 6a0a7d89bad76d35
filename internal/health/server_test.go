package health

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestHandleHealth(t *testing.T) {
	s := NewServer(Config{ServiceName: "strikeout-edge", Logger: quietLog()})

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "strikeout-edge", resp.Service)
}

func TestHandleReadyChecksArtifacts(t *testing.T) {
	dir := t.TempDir()
	estimator := filepath.Join(dir, "strikeout_model.json")
	schema := filepath.Join(dir, "feature_order.json")

	s := NewServer(Config{
		ServiceName:   "strikeout-edge",
		ArtifactPaths: []string{estimator, schema},
		Logger:        quietLog(),
	})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "missing", resp.Checks["artifact:strikeout_model.json"])

	require.NoError(t, os.WriteFile(estimator, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(schema, []byte("[]"), 0o644))

	rec = httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReadyNotReadyFlag(t *testing.T) {
	s := NewServer(Config{ServiceName: "strikeout-edge", Logger: quietLog()})

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
