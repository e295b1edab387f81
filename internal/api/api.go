package api

import (
	"log"
	"net/http"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/chatwidget/internal/api/middleware"
	"github.com/ethanbaker/chatwidget/pkg/sdk"
	"github.com/ethanbaker/chatwidget/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	chat_module "github.com/ethanbaker/chatwidget/internal/api/modules/chat"
	health_module "github.com/ethanbaker/chatwidget/internal/api/modules/health"
)

// NewEngine builds the gin engine with every module registered. The chat gateway must be
// initialized before requests are served
func NewEngine(cfg *utils.Config, backend string, reg *prometheus.Registry) *gin.Engine {
	// Add app level settings/routes
	engine := gin.Default()
	engine.NoRoute(api_utils.NoRouteHandler)

	// Wrong methods on known routes get a 405 instead of a 404
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(sdk.NewErrorResponse(http.StatusMethodNotAllowed, "Method Not Allowed").AsGinResponse())
	})

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetList("CORS_ALLOWED_ORIGINS", "*"),
		AllowMethods:     []string{"OPTIONS", "GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.RequestID(), middleware.Metrics(reg))
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup, backend)
	chat_module.RegisterRoutes(baseGroup)

	return engine
}

// Start initializes every module and serves the API until the process exits
func Start(cfg *utils.Config) {
	// Initialized configuration settings
	port := cfg.GetWithDefault("API_PORT", "8080")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := chat_module.Init(cfg, reg); err != nil {
		log.Fatal("[API-MAIN]: Failed to initialize chat module: ", err)
	}

	engine := NewEngine(cfg, chat_module.GetGateway().Backend(), reg)

	// Then after performing initial setup, start the server
	if err := engine.Run(":" + port); err != nil {
		log.Fatal("[API-MAIN]: Failed to start server: ", err)
	}
}
