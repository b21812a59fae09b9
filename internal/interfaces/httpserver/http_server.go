package httpserver

import (
	"fmt"
	"net/http"

	"agenthub/services/agent-api/internal/config"
	"agenthub/services/agent-api/internal/infrastructure"
	middleware "agenthub/services/agent-api/internal/interfaces/httpserver/middlewares"
	v1 "agenthub/services/agent-api/internal/interfaces/httpserver/routes/v1"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "agenthub/services/agent-api/docs/swagger"
)

type HTTPServer struct {
	engine  *gin.Engine
	infra   *infrastructure.Infrastructure
	v1Route *v1.V1Route
	config  *config.Config
}

func (s *HTTPServer) bindSwagger() {
	g := s.engine.Group("/")

	g.GET("/v1/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			ServeSwaggerSpec()(c)
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})
}

func NewHttpServer(
	v1Route *v1.V1Route,
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		gin.New(),
		infra,
		v1Route,
		cfg,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(infra.Logger))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// Root health checks for orchestrators
	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	server.engine.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(200, "ok")
	})

	if cfg.EnableSwagger {
		server.bindSwagger()
	}
	return &server
}

func (httpServer *HTTPServer) Run() error {
	// Public routes: invitation lookups used by signup pages. Rate limited
	// because they are reachable without a token.
	public := httpServer.engine.Group("/")
	public.Use(middleware.RateLimitMiddleware(httpServer.config.PublicRateLimitPerMinute))

	// Protected routes (auth middleware applied)
	protected := httpServer.engine.Group("/")
	protected.Use(
		middleware.AuthMiddleware(httpServer.infra.KeycloakValidator, httpServer.config, httpServer.infra.Logger),
	)

	httpServer.v1Route.RegisterPublicRouter(public)
	httpServer.v1Route.RegisterRouter(protected)

	if err := httpServer.engine.Run(fmt.Sprintf(":%d", httpServer.config.HTTPPort)); err != nil {
		return err
	}
	return nil
}
