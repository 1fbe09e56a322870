package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/emwave-api/internal/logging"
	"go.ngs.io/emwave-api/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(visualizeUC *usecase.VisualizeUseCase, opts Options) *gin.Engine {
	handler := NewHandler(visualizeUC, opts)

	router := gin.New()
	router.Use(logging.Middleware(handler.logger))
	router.Use(logging.Recovery(handler.logger))

	// Default to allow all origins if none are configured.
	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.ExposeHeaders = []string{logging.RequestIDHeader, "Content-Disposition"}
	router.Use(cors.New(corsConfig))

	// Unversioned alias kept for existing clients.
	router.POST("/visualize", handler.Visualize)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.POST("/visualize", handler.Visualize)
	v1.POST("/report", handler.Report)
	v1.POST("/probe", handler.Probe)
	v1.POST("/export", handler.Export)
	v1.GET("/stream", handler.Stream)
	v1.GET("/phenomena", handler.ListPhenomena)
	v1.GET("/materials", handler.ListMaterials)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}
