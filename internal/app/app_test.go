package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"go.ngs.io/emwave-api/internal/config"
)

func TestRenderOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Render.WidthInches = 6
	cfg.Render.HeightInches = 4
	cfg.Render.DPI = 50

	opts := RenderOptions(cfg)
	assert.Equal(t, 6*vg.Inch, opts.Width)
	assert.Equal(t, 4*vg.Inch, opts.Height)
	assert.Equal(t, 50, opts.DPI)
	assert.Equal(t, cfg.Render.GridResolution, opts.Resolution)
}

func TestNewVisualizeUseCase_MaterialsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.csv")
	csv := "name,relative_permittivity,relative_permeability,conductivity\nSapphire,9.4,1,0\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	cfg := config.DefaultConfig()
	cfg.Materials.Path = path
	uc := NewVisualizeUseCase(cfg, zap.NewNop())

	names := make([]string, 0)
	for _, m := range uc.Materials() {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, "Sapphire")
	assert.Contains(t, names, "Air")
}

func TestNewVisualizeUseCase_BuiltinsOnly(t *testing.T) {
	uc := NewVisualizeUseCase(config.DefaultConfig(), zap.NewNop())
	assert.Len(t, uc.Materials(), 4)
}

func TestHTTPOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.CORSAllowedOrigins = []string{"https://example.org"}
	cfg.Stream.FrameInterval = "20ms"

	opts := HTTPOptions(cfg, zap.NewNop(), "9.9.9")
	assert.Equal(t, []string{"https://example.org"}, opts.AllowedOrigins)
	assert.Equal(t, "9.9.9", opts.Version)
	assert.Equal(t, cfg.Stream.MaxFrames, opts.MaxFrames)
	assert.Equal(t, 20*time.Millisecond, opts.FrameInterval)
}
