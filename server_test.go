package hashlife

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *mux.Router) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.EnableMetrics = false
	cfg.LogRequests = false

	u := NewUniverse(3)
	srv := NewServer(u, cfg)

	router := mux.NewRouter()
	srv.setupRoutes(router)
	return srv, router
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestServerHealthEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestServerSetAndGetCells(t *testing.T) {
	_, router := newTestServer(t)

	body, err := json.Marshal(setCellsRequest{Cells: [][2]Dim{{1, 1}, {2, 2}}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cells", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/cells?x0=-10&y0=-10&x1=10&y1=10", nil)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)

	resp := decodeResponse(t, rec2)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["cells"], 2)
}

func TestServerStepEndpoint(t *testing.T) {
	srv, router := newTestServer(t)
	require.NoError(t, srv.universe.SetCell(0, 0, true))

	body, err := json.Marshal(stepRequest{Count: 3})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/step", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(3), srv.universe.Generation())
}

func TestServerClearEndpoint(t *testing.T) {
	srv, router := newTestServer(t)
	require.NoError(t, srv.universe.SetCell(0, 0, true))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Dim(0), srv.universe.Population())
}

func TestServerRenderEndpointRejectsMissingParams(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/render?x0=0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
}

func TestServerStatsEndpoint(t *testing.T) {
	srv, router := newTestServer(t)
	require.NoError(t, srv.universe.SetCell(0, 0, true))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["population"])
}
