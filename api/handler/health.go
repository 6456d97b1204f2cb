package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/dealermedia/config"
	"github.com/use-agent/dealermedia/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// PoolReporter exposes browser pool statistics.
type PoolReporter interface {
	Stats() models.PoolStats
}

// Health returns a handler for GET /api/v1/health. It reports the dealer
// site the resolver runs against and the browser pool. Status is "degraded"
// while the browser is enabled and every pooled page is busy.
func Health(pool PoolReporter, site config.SiteConfig, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := pool.Stats()

		status := "healthy"
		if stats.BrowserEnabled && stats.MaxPages > 0 && stats.ActivePages >= stats.MaxPages {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Origin:    site.Origin,
			ImageHost: site.ImageHost,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			PoolStats: stats,
			Version:   Version,
		})
	}
}
