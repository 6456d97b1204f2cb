package models

// Route names the strategy that produced the final image list.
const (
	RouteDirectURL         = "directUrl"
	RouteVehiclePage       = "vehiclePage"
	RouteListing           = "listing"
	RouteInventorySitemaps = "inventorySitemaps"
)

// Trace methods, i.e. how a probed URL was discovered.
const (
	MethodDirectURL        = "directUrl"
	MethodSitemap          = "sitemap"
	MethodSearch           = "search"
	MethodListing          = "listing"
	MethodPage             = "page"
	MethodInventorySitemap = "inventorySitemap"
)

// Trace outcomes.
const (
	OutcomeUnavailable = "unavailable"
	OutcomeNoMatch     = "noMatch"
	OutcomeMatch       = "match"
	OutcomeNoImages    = "noImages"
	OutcomeImages      = "images"
	OutcomeSkipped     = "skipped"
)

// MediaResult is the successful resolver output.
type MediaResult struct {
	Meta   Meta     `json:"meta"`
	Images []string `json:"images"`
	Debug  Debug    `json:"debug"`
}

// Meta describes the resolved vehicle.
type Meta struct {
	URL      string `json:"url,omitempty"`
	Title    string `json:"title"`
	Year     string `json:"year,omitempty"`
	Make     string `json:"make,omitempty"`
	Model    string `json:"model,omitempty"`
	Trim     string `json:"trim,omitempty"`
	VIN      string `json:"vin,omitempty"`
	VinLast8 string `json:"vinLast8,omitempty"`
	Stock    string `json:"stock,omitempty"`
}

// Debug records how a resolution went. It is diagnostic only.
type Debug struct {
	// Route is empty on a not-found outcome.
	Route       string         `json:"route,omitempty"`
	Identifier  string         `json:"identifier,omitempty"`
	Trace       []TraceEntry   `json:"trace"`
	CountsFound map[string]int `json:"countsFound"`
}

// TraceEntry is one probed source and what came of it.
type TraceEntry struct {
	Strategy string `json:"strategy"`
	Method   string `json:"method"`
	URL      string `json:"url,omitempty"`
	Outcome  string `json:"outcome"`
	Images   int    `json:"images,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// ErrorResponse is the body for not-found and internal failures.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Debug *Debug `json:"debug,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Origin    string    `json:"origin"`
	ImageHost string    `json:"image_host"`
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	BrowserEnabled bool `json:"browser_enabled"`
	MaxPages       int  `json:"max_pages"`
	ActivePages    int  `json:"active_pages"`
}
