// Package app wires the configuration to the use case shared by the server
// and the CLI.
package app

import (
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"go.ngs.io/emwave-api/internal/adapter/store"
	"go.ngs.io/emwave-api/internal/adapter/store/csv"
	"go.ngs.io/emwave-api/internal/config"
	httpHandler "go.ngs.io/emwave-api/internal/http"
	"go.ngs.io/emwave-api/internal/render"
	"go.ngs.io/emwave-api/internal/usecase"
)

// RenderOptions converts the render section to renderer options.
func RenderOptions(cfg *config.Config) render.Options {
	return render.Options{
		Width:      vg.Length(cfg.Render.WidthInches) * vg.Inch,
		Height:     vg.Length(cfg.Render.HeightInches) * vg.Inch,
		DPI:        cfg.Render.DPI,
		Resolution: cfg.Render.GridResolution,
		Samples:    cfg.Render.Samples,
	}
}

// NewVisualizeUseCase builds the material catalogue, the renderer and the
// use case. The CSV catalogue is only consulted when a path is configured.
func NewVisualizeUseCase(cfg *config.Config, logger *zap.Logger) *usecase.VisualizeUseCase {
	var loader store.MaterialLoader
	if cfg.Materials.Path != "" {
		loader = csv.NewMaterialStore(cfg.Materials.Path)
	}
	catalog := usecase.NewMaterialCatalog(loader, logger)
	renderer := render.New(RenderOptions(cfg))
	return usecase.NewVisualizeUseCase(catalog, renderer, logger, cfg.Render.GridResolution)
}

// HTTPOptions converts the server and stream sections to handler options.
func HTTPOptions(cfg *config.Config, logger *zap.Logger, version string) httpHandler.Options {
	return httpHandler.Options{
		Logger:         logger,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Version:        version,
		MaxFrames:      cfg.Stream.MaxFrames,
		DefaultFrames:  cfg.Stream.DefaultFrames,
		Samples:        cfg.Stream.Samples,
		FrameInterval:  cfg.FrameInterval(),
	}
}
