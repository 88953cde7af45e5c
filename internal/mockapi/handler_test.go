package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"IoTDashboard/internal/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestSimulatorRoutes(t *testing.T) {
	source := mock.NewDataSource()
	router := NewRouter(source, nil)

	rec := do(t, router, http.MethodPost, "/api/simulator/start")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, source.Simulator().Running)

	rec = do(t, router, http.MethodPost, "/api/simulator/config?deviceCount=30&messagesPerSecond=2")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/simulator/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["running"])
	assert.Equal(t, 30.0, body["deviceCount"])
	assert.Equal(t, 2.0, body["messagesPerSecond"])
}

func TestAnalyticsRoutes(t *testing.T) {
	source := mock.NewDataSource()
	router := NewRouter(source, nil)

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/analytics/config?method=FLOWABLE").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/analytics/start").Code)

	a := source.Analytics()
	assert.Equal(t, "FLOWABLE", a.Method)
	assert.Equal(t, mock.DefaultBatchSize, a.BatchSize)
	assert.True(t, a.Running)

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/analytics/stop").Code)
	assert.False(t, source.Analytics().Running)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	source := mock.NewDataSource()
	router := NewRouter(source, nil)

	rec := do(t, router, http.MethodPost, "/api/analytics/config?batchSize=many")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "batchSize")
	assert.Equal(t, mock.DefaultBatchSize, source.Analytics().BatchSize)
}

func TestWrongMethod(t *testing.T) {
	router := NewRouter(mock.NewDataSource(), nil)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, router, http.MethodGet, "/api/simulator/start").Code)
}
