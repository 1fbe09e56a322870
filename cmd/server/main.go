// Package main provides the emwave-api HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go.ngs.io/emwave-api/internal/app"
	"go.ngs.io/emwave-api/internal/config"
	httpHandler "go.ngs.io/emwave-api/internal/http"
	"go.ngs.io/emwave-api/internal/logging"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML configuration file")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("emwave-api version %s\n", version)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "emwave-api: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting emwave-api",
		zap.String("version", version),
		zap.String("port", cfg.Server.Port),
		zap.String("config", configPath),
		zap.String("materials", cfg.Materials.Path),
		zap.Strings("cors_allowed_origins", cfg.Server.CORSAllowedOrigins),
	)

	visualizeUC := app.NewVisualizeUseCase(cfg, logger)
	router := httpHandler.SetupRouter(visualizeUC, app.HTTPOptions(cfg, logger, version))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("EM Wave Visualizer API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  emwave-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println("  -config PATH   YAML configuration file (default: $CONFIG_PATH)")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  CONFIG_PATH             YAML configuration file")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  MATERIALS_PATH          Material catalogue CSV (optional)")
	fmt.Println("  LOG_LEVEL               debug, info, warn or error (default: info)")
	fmt.Println("  RENDER_DPI              Figure resolution (default: 100)")
	fmt.Println("  STREAM_MAX_FRAMES       Frame budget per websocket stream (default: 600)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  emwave-api")
	fmt.Println()
	fmt.Println("  # Start server on custom port with a material catalogue")
	fmt.Println("  PORT=3000 MATERIALS_PATH=data/materials.csv emwave-api")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET  /health             Health check")
	fmt.Println("  GET  /v1/phenomena       List supported phenomena")
	fmt.Println("  GET  /v1/materials       List available media")
	fmt.Println("  POST /v1/visualize       Render a figure with its physics report")
	fmt.Println("  POST /v1/report          Physics report only")
	fmt.Println("  POST /v1/probe           Field value at a point")
	fmt.Println("  POST /v1/export          Field grid as NetCDF")
	fmt.Println("  GET  /v1/stream          Animation frames over a websocket")
	fmt.Println()
}
