package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"suburbdash/server/config"
)

// NewRouter builds the engine with middleware and all routes
func NewRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(handler.logger))
	router.Use(PrometheusMetrics())
	router.Use(cors.New(corsConfig(cfg)))

	SetupRoutes(router, handler)
	return router
}

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/properties", handler.GetProperties)
		api.GET("/metrics", handler.GetMetrics)
		api.GET("/property-types", handler.GetPropertyTypes)
	}

	api.GET("/dashboard", handler.GetDashboard)

	sessions := api.Group("/", handler.SessionMiddleware())
	{
		sessions.POST("/search", handler.Search)
		sessions.POST("/search/retry", handler.RetrySearch)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, sessionHeader)
	c.ExposeHeaders = []string{sessionHeader}

	if len(cfg.Server.AllowedOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	for _, origin := range cfg.Server.AllowedOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.Server.AllowedOrigins
	return c
}
