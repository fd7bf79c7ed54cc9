package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookfinder/be/internal/apperr"
	"bookfinder/be/internal/config"
)

// Registrar is implemented by every feature controller.
type Registrar interface {
	RegisterRoutes(router *gin.Engine)
}

// NewRouter assembles the HTTP surface: middleware, feature routes, OPTIONS
// pre-flight for each path, /ping and /metrics.
func NewRouter(corsCfg config.CORSConfig, registry *prometheus.Registry, controllers ...Registrar) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(RequestID(), AccessLog(), Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:              corsCfg.AllowOrigins,
		AllowMethods:              corsCfg.AllowMethods,
		AllowHeaders:              corsCfg.AllowHeaders,
		ExposeHeaders:             corsCfg.ExposeHeaders,
		OptionsResponseStatusCode: http.StatusOK,
	}))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	for _, controller := range controllers {
		controller.RegisterRoutes(router)
	}
	registerPreflight(router)

	router.NoMethod(func(c *gin.Context) {
		apperr.Respond(c, apperr.MethodNotAllowed(), "")
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

// registerPreflight answers OPTIONS with an empty 200 on every registered path.
// Real CORS pre-flights are already answered by the cors middleware.
func registerPreflight(router *gin.Engine) {
	seen := make(map[string]bool)
	for _, route := range router.Routes() {
		if route.Method == http.MethodOptions {
			seen[route.Path] = true
		}
	}
	for _, route := range router.Routes() {
		if seen[route.Path] {
			continue
		}
		seen[route.Path] = true
		router.OPTIONS(route.Path, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}
}
