package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Site.Origin != "https://www.corwinfordtricities.com" {
		t.Errorf("Site.Origin = %q", cfg.Site.Origin)
	}
	if cfg.Site.ImageHost != "vehicle-images.dealerinspire.com" {
		t.Errorf("Site.ImageHost = %q", cfg.Site.ImageHost)
	}
	if cfg.Fetch.Timeout != 0 {
		t.Errorf("Fetch.Timeout = %v, want platform default (0)", cfg.Fetch.Timeout)
	}
	if cfg.Browser.Enabled {
		t.Error("browser engine should be off by default")
	}
	if cfg.Cache.MaxAge != 0 {
		t.Errorf("Cache.MaxAge = %v, want 0 (no caching)", cfg.Cache.MaxAge)
	}
	if got := len(cfg.Browser.BlockedResourceTypes); got != 4 {
		t.Errorf("BlockedResourceTypes has %d entries, want 4", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DEALERMEDIA_SITE_ORIGIN", "https://dealer.example/")
	t.Setenv("DEALERMEDIA_IMAGE_HOST", "CDN.Example")
	t.Setenv("DEALERMEDIA_FETCH_TIMEOUT", "7s")
	t.Setenv("DEALERMEDIA_API_KEYS", " a, ,b ")
	t.Setenv("DEALERMEDIA_PORT", "not-a-number")

	cfg := Load()

	if cfg.Site.Origin != "https://dealer.example" {
		t.Errorf("trailing slash not trimmed: %q", cfg.Site.Origin)
	}
	if cfg.Site.ImageHost != "cdn.example" {
		t.Errorf("image host not lowercased: %q", cfg.Site.ImageHost)
	}
	if cfg.Fetch.Timeout != 7*time.Second {
		t.Errorf("Fetch.Timeout = %v", cfg.Fetch.Timeout)
	}
	if len(cfg.Auth.APIKeys) != 2 || cfg.Auth.APIKeys[0] != "a" || cfg.Auth.APIKeys[1] != "b" {
		t.Errorf("APIKeys = %v", cfg.Auth.APIKeys)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("invalid port should fall back to default, got %d", cfg.Server.Port)
	}
}
