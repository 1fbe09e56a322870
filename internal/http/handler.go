package http

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go.ngs.io/emwave-api/internal/adapter/store"
	"go.ngs.io/emwave-api/internal/adapter/store/fieldnc"
	"go.ngs.io/emwave-api/internal/logging"
	"go.ngs.io/emwave-api/internal/usecase"
)

// Options configures the handler.
type Options struct {
	Logger         *zap.Logger
	Writer         store.FieldWriter // Defaults to the NetCDF writer.
	AllowedOrigins []string          // Empty allows all origins.
	Version        string

	MaxFrames     int
	DefaultFrames int
	Samples       int
	FrameInterval time.Duration
}

// Handler handles HTTP requests for visualizations.
type Handler struct {
	visualizeUC *usecase.VisualizeUseCase
	opts        Options
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(visualizeUC *usecase.VisualizeUseCase, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Writer == nil {
		opts.Writer = fieldnc.Writer{}
	}
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = 600
	}
	if opts.DefaultFrames <= 0 || opts.DefaultFrames > opts.MaxFrames {
		opts.DefaultFrames = min(60, opts.MaxFrames)
	}
	if opts.Samples < 2 {
		opts.Samples = 200
	}
	return &Handler{
		visualizeUC: visualizeUC,
		opts:        opts,
		logger:      opts.Logger,
	}
}

// ProbeRequest is the body of POST /v1/probe.
type ProbeRequest struct {
	Request usecase.VisualizationRequest `json:"request"`
	X       *float64                     `json:"x"` // m.
	Y       *float64                     `json:"y"` // m.
}

// errorStatus maps use case errors to HTTP status codes.
func errorStatus(err error) int {
	if errors.Is(err, usecase.ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		logging.FromContext(c, h.logger).Error("request failed", zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, usecase.VisualizationResponse{Success: false, Error: err.Error()})
}

func (h *Handler) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return false
	}
	return true
}

// Visualize handles POST /visualize and POST /v1/visualize.
func (h *Handler) Visualize(c *gin.Context) {
	var req usecase.VisualizationRequest
	if !h.bind(c, &req) {
		return
	}

	response, err := h.visualizeUC.Execute(req)
	if err != nil {
		h.fail(c, errorStatus(err), err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Report handles POST /v1/report.
func (h *Handler) Report(c *gin.Context) {
	var req usecase.VisualizationRequest
	if !h.bind(c, &req) {
		return
	}

	cfg, err := h.visualizeUC.Report(req)
	if err != nil {
		h.fail(c, errorStatus(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"config":  cfg,
	})
}

// Probe handles POST /v1/probe.
func (h *Handler) Probe(c *gin.Context) {
	var req ProbeRequest
	if !h.bind(c, &req) {
		return
	}
	if req.X == nil || req.Y == nil {
		h.fail(c, http.StatusBadRequest, errors.New("x and y are required"))
		return
	}

	result, err := h.visualizeUC.Probe(req.Request, *req.X, *req.Y)
	if err != nil {
		h.fail(c, errorStatus(err), err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Export handles POST /v1/export. The field grid is written as NetCDF to a
// scratch directory and sent as an attachment.
func (h *Handler) Export(c *gin.Context) {
	var req usecase.VisualizationRequest
	if !h.bind(c, &req) {
		return
	}

	grid, meta, err := h.visualizeUC.FieldGrid(req)
	if err != nil {
		h.fail(c, errorStatus(err), err)
		return
	}

	dir, err := os.MkdirTemp("", "emwave-export-")
	if err != nil {
		h.fail(c, http.StatusInternalServerError, fmt.Errorf("failed to create export directory: %w", err))
		return
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "field.nc")
	if err := h.opts.Writer.WriteGrid(path, grid, meta); err != nil {
		h.fail(c, http.StatusInternalServerError, fmt.Errorf("failed to write field grid: %w", err))
		return
	}

	c.Header("Content-Type", "application/x-netcdf")
	c.FileAttachment(path, fmt.Sprintf("%s_%s.nc", meta.Phenomenon, meta.Variable))
}

// ListPhenomena handles GET /v1/phenomena.
func (h *Handler) ListPhenomena(c *gin.Context) {
	phenomena := h.visualizeUC.ListPhenomena()
	c.JSON(http.StatusOK, gin.H{
		"phenomena": phenomena,
		"count":     len(phenomena),
	})
}

// ListMaterials handles GET /v1/materials.
func (h *Handler) ListMaterials(c *gin.Context) {
	materials := h.visualizeUC.Materials()
	c.JSON(http.StatusOK, gin.H{
		"materials": materials,
		"count":     len(materials),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	resp := gin.H{
		"status":    "ok",
		"time":      time.Now().UTC().Format(time.RFC3339),
		"materials": "ok",
	}
	if err := h.visualizeUC.CatalogError(); err != nil {
		resp["status"] = "degraded"
		resp["materials"] = err.Error()
	}
	if h.opts.Version != "" {
		resp["version"] = h.opts.Version
	}
	c.JSON(http.StatusOK, resp)
}
