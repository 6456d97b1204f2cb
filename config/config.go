package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Site      SiteConfig
	Fetch     FetchConfig
	Browser   BrowserConfig
	Engine    EngineConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Batch     BatchConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// SiteConfig describes the dealer site the resolver searches.
type SiteConfig struct {
	// Origin is the dealer site scheme+host, without a trailing slash.
	Origin string // default: "https://www.corwinfordtricities.com"

	// ImageHost is the CDN hostname serving vehicle photos. Subdomains match.
	ImageHost string // default: "vehicle-images.dealerinspire.com"

	// AssetOrigin, when set, resolves root-relative image paths against it.
	// Left empty, root-relative entries are dropped from results.
	AssetOrigin string

	// RobotsSitemaps adds Sitemap: directives from /robots.txt to the
	// well-known sitemap probes.
	RobotsSitemaps bool // default: true

	// ListingWindow is the text window (in bytes) searched around an
	// identifier on listing pages.
	ListingWindow int // default: 2000
}

// FetchConfig controls outbound page fetches.
type FetchConfig struct {
	// Timeout overrides the client timeout. Zero keeps the platform default.
	Timeout time.Duration // default: 0

	// TLSFingerprint dials HTTPS with a Chrome ClientHello (utls).
	TLSFingerprint bool // default: true

	// Proxy is an optional http(s) proxy URL for all fetches.
	Proxy string

	// MaxBodyBytes caps the decoded response body.
	MaxBodyBytes int64 // default: 10 MiB
}

// BrowserConfig controls the optional Rod browser engine.
type BrowserConfig struct {
	// Enabled adds a headless browser as the escalation engine for
	// origins that block plain HTTP clients.
	Enabled bool // default: false

	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 2

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// NavigationTimeout is the max time for one browser fetch.
	NavigationTimeout time.Duration // default: 20s

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// EngineConfig controls the fetch engine dispatcher.
type EngineConfig struct {
	// DomainMemoryTTL is how long the engine that last worked for a domain
	// is tried first.
	DomainMemoryTTL time.Duration // default: 24h
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// CacheConfig controls the optional result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 500

	// MaxAge is the default freshness window. Zero disables caching unless
	// the caller asks for it per request.
	MaxAge time.Duration // default: 0
}

// BatchConfig controls batch resolution jobs.
type BatchConfig struct {
	Concurrency int // default: 2
	MaxItems    int // default: 50
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("DEALERMEDIA_HOST", "0.0.0.0"),
			Port: envIntOr("DEALERMEDIA_PORT", 8080),
			Mode: envOr("DEALERMEDIA_MODE", "release"),
		},
		Site: SiteConfig{
			Origin:         strings.TrimRight(envOr("DEALERMEDIA_SITE_ORIGIN", "https://www.corwinfordtricities.com"), "/"),
			ImageHost:      strings.ToLower(envOr("DEALERMEDIA_IMAGE_HOST", "vehicle-images.dealerinspire.com")),
			AssetOrigin:    strings.TrimRight(os.Getenv("DEALERMEDIA_ASSET_ORIGIN"), "/"),
			RobotsSitemaps: envBoolOr("DEALERMEDIA_ROBOTS_SITEMAPS", true),
			ListingWindow:  envIntOr("DEALERMEDIA_LISTING_WINDOW", 2000),
		},
		Fetch: FetchConfig{
			Timeout:        envDurationOr("DEALERMEDIA_FETCH_TIMEOUT", 0),
			TLSFingerprint: envBoolOr("DEALERMEDIA_TLS_FINGERPRINT", true),
			Proxy:          os.Getenv("DEALERMEDIA_PROXY"),
			MaxBodyBytes:   int64(envIntOr("DEALERMEDIA_MAX_BODY_BYTES", 10<<20)),
		},
		Browser: BrowserConfig{
			Enabled:           envBoolOr("DEALERMEDIA_BROWSER_ENABLED", false),
			Headless:          envBoolOr("DEALERMEDIA_BROWSER_HEADLESS", true),
			MaxPages:          envIntOr("DEALERMEDIA_BROWSER_MAX_PAGES", 2),
			NoSandbox:         envBoolOr("DEALERMEDIA_BROWSER_NO_SANDBOX", false),
			BrowserBin:        os.Getenv("DEALERMEDIA_BROWSER_BIN"),
			NavigationTimeout: envDurationOr("DEALERMEDIA_NAV_TIMEOUT", 20*time.Second),
			BlockedResourceTypes: envSliceOr("DEALERMEDIA_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Engine: EngineConfig{
			DomainMemoryTTL: envDurationOr("DEALERMEDIA_DOMAIN_MEMORY_TTL", 24*time.Hour),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("DEALERMEDIA_AUTH_ENABLED", false),
			APIKeys: envSliceOr("DEALERMEDIA_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("DEALERMEDIA_RATE_RPS", 2.0),
			Burst:             envIntOr("DEALERMEDIA_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("DEALERMEDIA_CACHE_MAX_ENTRIES", 500),
			MaxAge:     envDurationOr("DEALERMEDIA_CACHE_MAX_AGE", 0),
		},
		Batch: BatchConfig{
			Concurrency: envIntOr("DEALERMEDIA_BATCH_CONCURRENCY", 2),
			MaxItems:    envIntOr("DEALERMEDIA_BATCH_MAX_ITEMS", 50),
		},
		Log: LogConfig{
			Level:  envOr("DEALERMEDIA_LOG_LEVEL", "info"),
			Format: envOr("DEALERMEDIA_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
