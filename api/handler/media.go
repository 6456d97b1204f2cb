package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/dealermedia/cache"
	"github.com/use-agent/dealermedia/models"
)

// successCacheControl is sent with every resolved result.
const successCacheControl = "public, max-age=3600"

// MediaResolver resolves one locator request.
type MediaResolver interface {
	Resolve(ctx context.Context, req models.LocatorRequest) (*models.MediaResult, error)
}

// GetVehicleMedia returns a handler for GET /api/v1/vehicle-media.
// The locator is read from the vinLast8, stock, url and maxAge query
// parameters.
func GetVehicleMedia(rv MediaResolver, cc *cache.Cache, defaultMaxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LocatorRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			badRequest(c, "invalid request: "+err.Error())
			return
		}
		serveMedia(c, rv, cc, defaultMaxAge, req)
	}
}

// PostVehicleMedia returns a handler for POST /api/v1/vehicle-media.
// It accepts the same locator as a JSON body.
func PostVehicleMedia(rv MediaResolver, cc *cache.Cache, defaultMaxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LocatorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request: "+err.Error())
			return
		}
		serveMedia(c, rv, cc, defaultMaxAge, req)
	}
}

func serveMedia(c *gin.Context, rv MediaResolver, cc *cache.Cache, defaultMaxAge time.Duration, req models.LocatorRequest) {
	req.Normalize()
	if req.Empty() {
		badRequest(c, models.MsgMissingLocator)
		return
	}

	maxAge := defaultMaxAge
	if req.MaxAge > 0 {
		maxAge = time.Duration(req.MaxAge) * time.Millisecond
	}
	key := cache.Key(req)

	if cc != nil {
		if cached, ok := cc.Get(key, maxAge); ok {
			c.Header("X-Cache", "HIT")
			c.Header("Cache-Control", successCacheControl)
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	res, err := rv.Resolve(c.Request.Context(), req)
	if err != nil {
		writeResolveError(c, err)
		return
	}

	if cc != nil && maxAge > 0 {
		cc.Set(key, res)
	}
	c.Header("Cache-Control", successCacheControl)
	c.JSON(http.StatusOK, res)
}

// writeResolveError maps a resolver error onto the HTTP contract: 404 with
// the debug trace for not-found, 400 for bad input, 500 otherwise.
func writeResolveError(c *gin.Context, err error) {
	var re *models.ResolveError
	if !errors.As(err, &re) {
		re = models.NewResolveError(models.ErrCodeInternal, err.Error(), err)
	}

	switch re.Code {
	case models.ErrCodeNotFound:
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: re.Message,
			Code:  re.Code,
			Debug: re.Debug,
		})
	case models.ErrCodeInvalidInput:
		badRequest(c, re.Message)
	default:
		slog.Error("vehicle media failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: re.Message,
			Code:  re.Code,
		})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: msg,
		Code:  models.ErrCodeInvalidInput,
	})
}
