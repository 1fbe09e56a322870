package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/emwave-api/internal/adapter/store/fieldnc"
	"go.ngs.io/emwave-api/internal/domain"
	"go.ngs.io/emwave-api/internal/logging"
	"go.ngs.io/emwave-api/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRenderer struct {
	err error
}

func (s stubRenderer) Render(usecase.Params, *usecase.Configuration) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("\x89PNG"), nil
}

func newTestRouter(t *testing.T, renderer usecase.FigureRenderer, opts Options) *gin.Engine {
	t.Helper()
	uc := usecase.NewVisualizeUseCase(nil, renderer, nil, 32)
	return SetupRouter(uc, opts)
}

func postJSON(router http.Handler, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func request(phenomenon string) map[string]any {
	return map[string]any{
		"phenomenon": phenomenon,
		"frequency":  10e9,
		"amplitude":  1.0,
	}
}

func TestVisualize(t *testing.T) {
	router := newTestRouter(t, stubRenderer{}, Options{})

	for _, path := range []string{"/visualize", "/v1/visualize"} {
		t.Run(path, func(t *testing.T) {
			w := postJSON(router, path, request("reflection"))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp usecase.VisualizationResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Success)
			assert.NotEmpty(t, resp.Image)
			require.NotNil(t, resp.Config)
			assert.Equal(t, "reflection", resp.Config.Phenomenon)
			assert.Equal(t, usecase.ConfigVersion, resp.Config.Version)
			assert.NotEmpty(t, resp.Description)
			assert.NotEmpty(t, w.Header().Get(logging.RequestIDHeader))
		})
	}
}

func TestVisualize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		renderer usecase.FigureRenderer
		body     any
		status   int
		contains string
	}{
		{
			name:     "unknown phenomenon",
			renderer: stubRenderer{},
			body:     request("holography"),
			status:   http.StatusBadRequest,
			contains: "holography",
		},
		{
			name:     "missing frequency",
			renderer: stubRenderer{},
			body:     map[string]any{"phenomenon": "plane_wave", "amplitude": 1.0},
			status:   http.StatusBadRequest,
			contains: "frequency",
		},
		{
			name:     "malformed body",
			renderer: stubRenderer{},
			body:     "not an object",
			status:   http.StatusBadRequest,
			contains: "invalid JSON body",
		},
		{
			name:     "overflowing wave",
			renderer: stubRenderer{},
			body:     map[string]any{"phenomenon": "standing_wave", "frequency": 1e300, "amplitude": 1e300},
			status:   http.StatusBadRequest,
			contains: "frequency must be between",
		},
		{
			name:     "rectangular mode on circular guide",
			renderer: stubRenderer{},
			body: map[string]any{
				"phenomenon": "waveguide", "frequency": 10e9, "amplitude": 1.0,
				"guide_type": "circular", "mode": "TE10",
			},
			status:   http.StatusBadRequest,
			contains: "circular guides start at TE11 and TM01",
		},
		{
			name:     "render failure",
			renderer: stubRenderer{err: errors.New("canvas exploded")},
			body:     request("plane_wave"),
			status:   http.StatusInternalServerError,
			contains: "canvas exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, tt.renderer, Options{})
			w := postJSON(router, "/v1/visualize", tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp usecase.VisualizationResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.contains)
			assert.Empty(t, resp.Image)
		})
	}
}

func TestReport(t *testing.T) {
	router := newTestRouter(t, nil, Options{})

	body := request("doppler")
	body["velocity"] = 0.5 * 299792458.0
	w := postJSON(router, "/v1/report", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool                  `json:"success"`
		Config  usecase.Configuration `json:"config"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Config.Physics.Doppler)
	require.NotNil(t, resp.Config.Physics.Doppler.ObservedFrequency)
	assert.InDelta(t, 10e9*1.7320508, *resp.Config.Physics.Doppler.ObservedFrequency, 1e3)
	assert.Equal(t, "blue", resp.Config.Physics.Doppler.Shift)
}

func TestProbe(t *testing.T) {
	router := newTestRouter(t, nil, Options{})

	w := postJSON(router, "/v1/probe", map[string]any{
		"request": request("interference"),
		"x":       0.0,
		"y":       0.0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result usecase.ProbeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "interference", result.Phenomenon)
	assert.Equal(t, "intensity", result.Variable)
	assert.GreaterOrEqual(t, result.Value, 0.0)
	assert.LessOrEqual(t, result.Value, 1.0)
}

func TestProbe_Errors(t *testing.T) {
	router := newTestRouter(t, nil, Options{})

	w := postJSON(router, "/v1/probe", map[string]any{"request": request("interference")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "x and y are required")

	w = postJSON(router, "/v1/probe", map[string]any{
		"request": request("interference"),
		"x":       10.0,
		"y":       10.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "/v1/probe", map[string]any{
		"request": request("plane_wave"),
		"x":       0.0,
		"y":       0.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no field grid")
}

func TestExport(t *testing.T) {
	router := newTestRouter(t, nil, Options{})

	w := postJSON(router, "/v1/export", request("interference"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/x-netcdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "interference_intensity.nc")

	path := filepath.Join(t.TempDir(), "download.nc")
	require.NoError(t, os.WriteFile(path, w.Body.Bytes(), 0o600))

	grid, meta, err := fieldnc.ReadGrid(path, "intensity")
	require.NoError(t, err)
	assert.Equal(t, "interference", meta.Phenomenon)
	assert.InDelta(t, 10e9, meta.Frequency, 1)
	assert.Len(t, grid.X, 32)
	assert.Len(t, grid.Y, 32)
	_, hi := grid.MinMax()
	assert.InDelta(t, 1.0, hi, 1e-9)
	assert.InDelta(t, 1.0, meta.ValidMax, 1e-9)
	assert.GreaterOrEqual(t, meta.ValidMin, 0.0)
}

func TestExport_NoFieldGrid(t *testing.T) {
	router := newTestRouter(t, nil, Options{})

	w := postJSON(router, "/v1/export", request("dipole"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEndpoints(t *testing.T) {
	router := newTestRouter(t, nil, Options{Version: "1.2.3"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/phenomena", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var phenomena struct {
		Phenomena []usecase.PhenomenonInfo `json:"phenomena"`
		Count     int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &phenomena))
	assert.Equal(t, 8, phenomena.Count)
	assert.Len(t, phenomena.Phenomena, 8)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/materials", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var materials struct {
		Materials []usecase.MediumInfo `json:"materials"`
		Count     int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &materials))
	assert.Equal(t, len(materials.Materials), materials.Count)
	assert.Equal(t, 4, materials.Count)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "1.2.3", health["version"])
	assert.Equal(t, "ok", health["materials"])
}

type failingLoader struct{}

func (failingLoader) LoadMaterials() ([]domain.Medium, error) {
	return nil, errors.New("materials.csv: no such file")
}

func TestHealthCheck_CatalogueUnavailable(t *testing.T) {
	catalog := usecase.NewMaterialCatalog(failingLoader{}, nil)
	router := SetupRouter(usecase.NewVisualizeUseCase(catalog, nil, nil, 32), Options{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health["status"])
	assert.Equal(t, "materials.csv: no such file", health["materials"])

	// Built-in media keep working.
	w = postJSON(router, "/v1/report", request("reflection"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, nil, Options{AllowedOrigins: []string{"https://allowed.example"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://allowed.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://allowed.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
