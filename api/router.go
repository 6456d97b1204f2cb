// Package api wires the HTTP surface of the vehicle media service.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/dealermedia/api/handler"
	"github.com/use-agent/dealermedia/api/middleware"
	"github.com/use-agent/dealermedia/cache"
	"github.com/use-agent/dealermedia/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health is served outside auth. cc may be nil, which disables result caching.
func NewRouter(pool handler.PoolReporter, rv handler.MediaResolver, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health, no auth.
	v1.GET("/health", handler.Health(pool, cfg.Site, startTime))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Single vehicle
	protected.GET("/vehicle-media", handler.GetVehicleMedia(rv, cc, cfg.Cache.MaxAge))
	protected.POST("/vehicle-media", handler.PostVehicleMedia(rv, cc, cfg.Cache.MaxAge))

	// Batch
	protected.POST("/batch/vehicle-media", handler.PostBatch(rv, cfg.Batch))
	protected.GET("/batch/:id", handler.GetBatch())

	return r
}
