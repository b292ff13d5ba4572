package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/mpgscenes/engine"
	"github.com/spektr-org/mpgscenes/internal/config"
	"github.com/spektr-org/mpgscenes/internal/logging"
	"github.com/spektr-org/mpgscenes/internal/metrics"
	"github.com/spektr-org/mpgscenes/scene"
)

var sampleCars = []engine.CarRecord{
	{Make: "Tesla", Fuel: "Electricity", HighwayMPG: 100, CityMPG: 110},
	{Make: "Audi", Fuel: "Gasoline", EngineCylinders: 4, HighwayMPG: 30, CityMPG: 22},
	{Make: "Tesla", Fuel: "Electricity", HighwayMPG: 90, CityMPG: 94},
	{Make: "Ferrari", Fuel: "Gasoline", EngineCylinders: 12, HighwayMPG: 16, CityMPG: 12},
	{Make: "Audi", Fuel: "Diesel", EngineCylinders: 6, HighwayMPG: 26, CityMPG: 26},
}

func newTestRouter(t *testing.T, m *metrics.Metrics) http.Handler {
	t.Helper()
	ctrl := scene.NewController(engine.NewDataset(sampleCars))
	return NewRouter(Options{
		Controller: ctrl,
		Metrics:    m,
		Version:    "test",
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

// ============================================================================
// SCENES
// ============================================================================

func TestIndexRedirectsToDefaultScene(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/scenes/scene1", rec.Header().Get("Location"))
}

func TestListScenes(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/scenes")
	require.Equal(t, http.StatusOK, rec.Code)

	var infos []scene.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 3)
	assert.Equal(t, "scene1", infos[0].Name)
	assert.Equal(t, "scene3", infos[2].Name)
}

func TestScenePage(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/scenes/scene2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `<div id="visualization">`)
	assert.Contains(t, body, "<svg")
	assert.NotContains(t, body, "<?xml")
	assert.Contains(t, body, `href="/scenes/scene3"`)
}

func TestSceneSVG(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/scenes/scene3/svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<circle")
	assert.Contains(t, rec.Body.String(), "</svg>")
}

func TestSceneModel(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/scenes/scene1/model")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bar"`)
}

func TestUnknownSceneIs404(t *testing.T) {
	for _, target := range []string{"/scenes/scene4", "/scenes/nope/svg", "/scenes/nope/model"} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, newTestRouter(t, nil), target)
			require.Equal(t, http.StatusNotFound, rec.Code)
			apiErr := decodeError(t, rec)
			assert.Equal(t, "SCENE_NOT_FOUND", apiErr.ErrorCode)
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestUnmatchedRouteIsJSON404(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/does/not/exist")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).ErrorCode)
}

// ============================================================================
// STATS & EXPORT
// ============================================================================

func TestStatsKeepFirstOccurrenceOrder(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/stats/highway_mpg")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Measure string `json:"measure"`
		Records int    `json:"records"`
		Stats   []struct {
			Make  string  `json:"make"`
			Value float64 `json:"value"`
		} `json:"stats"`
		Table engine.TableData `json:"table"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "highway_mpg", body.Measure)
	assert.Equal(t, 5, body.Records)
	require.Len(t, body.Stats, 3)
	assert.Equal(t, "Tesla", body.Stats[0].Make)
	assert.InDelta(t, 95, body.Stats[0].Value, 1e-9)
	assert.Equal(t, "Audi", body.Stats[1].Make)
	assert.Equal(t, "Ferrari", body.Stats[2].Make)
	assert.Equal(t, []string{"Tesla", "95.00"}, body.Table.Rows[0])
}

func TestStatsSortAndLimit(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/stats/city_mpg?sort=value_asc&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"make":"Ferrari"`)
	assert.NotContains(t, rec.Body.String(), `"make":"Tesla"`)
}

func TestStatsErrors(t *testing.T) {
	tests := []struct {
		target string
		status int
		code   string
	}{
		{"/stats/weight", http.StatusNotFound, "MEASURE_NOT_FOUND"},
		{"/stats/city_mpg?by=colour", http.StatusBadRequest, "INVALID_DIMENSION"},
		{"/stats/city_mpg?limit=-1", http.StatusBadRequest, "INVALID_PARAMETER"},
		{"/stats/city_mpg?limit=x", http.StatusBadRequest, "INVALID_PARAMETER"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, newTestRouter(t, nil), tt.target)
			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).ErrorCode)
		})
	}
}

func TestExportCSV(t *testing.T) {
	m := metrics.New()
	rec := get(t, newTestRouter(t, m), "/export/highway_mpg.csv")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="highway_mpg_by_make.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Make,Highway MPG\nTesla,95.00\nAudi,28.00\nFerrari,16.00\n", rec.Body.String())
}

func TestExportXLSX(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/export/city_mpg.xlsx?by=fuel")
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Fuel", "City MPG"}, rows[0])
	assert.Equal(t, "Electricity", rows[1][0])
	assert.Equal(t, "102", rows[1][1])
}

func TestExportUnknownFormat(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/export/highway_mpg.pdf")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FORMAT", decodeError(t, rec).ErrorCode)
}

// ============================================================================
// HEALTH, METRICS & MIDDLEWARE
// ============================================================================

func TestHealth(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 5.0, body["records"])
	assert.Equal(t, "test", body["version"])
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	h := newTestRouter(t, m)
	get(t, h, "/scenes/scene1")
	get(t, h, "/scenes/scene9")

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `mpgscenes_scene_renders_total{scene="scene1"} 1`)
	assert.Contains(t, body, `mpgscenes_http_requests_total{code="404",route="/scenes/{scene}"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(t, h, "/healthz")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/scenes/missing", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", decodeError(t, rec).RequestID)
}

func TestRateLimiter(t *testing.T) {
	h := NewRouter(Options{
		Controller: scene.NewController(engine.NewDataset(sampleCars)),
		RateLimit:  1,
		RateBurst:  2,
	})

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, rec).ErrorCode)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRecovererReturns500(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := RequestID(Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := get(t, h, "/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeError(t, rec).ErrorCode)
	assert.Contains(t, logs.String(), "panic recovered")
}

// ============================================================================
// SERVER
// ============================================================================

func TestServeListenerShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := config.Default().Server
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeListener(ctx, ln, cfg, newTestRouter(t, nil), logging.Discard())
	}()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
