package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/use-agent/dealermedia/config"
	"github.com/use-agent/dealermedia/models"
)

type nopPool struct{}

func (nopPool) Stats() models.PoolStats { return models.PoolStats{} }

type stubResolver struct{}

func (stubResolver) Resolve(context.Context, models.LocatorRequest) (*models.MediaResult, error) {
	return &models.MediaResult{Images: []string{"https://vehicle-images.dealerinspire.com/a.jpg"}}, nil
}

func TestRouter_AuthBoundary(t *testing.T) {
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		Auth:      config.AuthConfig{Enabled: true, APIKeys: []string{"secret"}},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
	r := NewRouter(nopPool{}, stubResolver{}, cfg, nil, time.Now())

	tests := []struct {
		path string
		key  string
		want int
	}{
		{"/api/v1/health", "", http.StatusOK},
		{"/api/v1/vehicle-media?stock=T1", "", http.StatusUnauthorized},
		{"/api/v1/vehicle-media?stock=T1", "secret", http.StatusOK},
		{"/api/v1/batch/unknown", "secret", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.key != "" {
			req.Header.Set("X-API-Key", tt.key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("GET %s (key %q) = %d, want %d", tt.path, tt.key, w.Code, tt.want)
		}
	}
}
