package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/config"
	middleware "github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/middlewares"
	v1 "github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1"

	_ "github.com/Jobly-Solutions/lente-ai-sub001/docs/swagger"
)

type HTTPServer struct {
	engine  *gin.Engine
	v1Route *v1.V1Route
	config  *config.Config
}

func NewHttpServer(
	v1Route *v1.V1Route,
	cfg *config.Config,
	logger zerolog.Logger,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		engine:  gin.New(),
		v1Route: v1Route,
		config:  cfg,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(logger))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware())

	// Root health check for orchestrator probes
	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.EnableSwagger {
		server.engine.GET("/api/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return &server
}

// Engine exposes the underlying router for tests.
func (httpServer *HTTPServer) Engine() *gin.Engine {
	return httpServer.engine
}

func (httpServer *HTTPServer) Run() error {
	httpServer.v1Route.RegisterRouter(httpServer.engine.Group("/"))
	return httpServer.engine.Run(fmt.Sprintf(":%d", httpServer.config.HTTPPort))
}
