package resolver

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/temoto/robotstxt"
	"github.com/use-agent/dealermedia/extract"
)

// WellKnownSitemaps are the sitemap paths probed on every dealer origin, in
// probe order.
var WellKnownSitemaps = []string{
	"/sitemap_index.xml",
	"/sitemap.xml",
	"/sitemap-inventory.xml",
	"/sitemap-vehicle.xml",
}

// Discoverer finds the candidate sitemap URLs of a dealer origin.
type Discoverer struct {
	fetcher TextFetcher
	origin  string
	robots  bool
}

// NewDiscoverer creates a Discoverer for origin. When robots is true the
// Sitemap: directives of /robots.txt are probed after the well-known paths.
func NewDiscoverer(f TextFetcher, origin string, robots bool) *Discoverer {
	return &Discoverer{fetcher: f, origin: strings.TrimRight(origin, "/"), robots: robots}
}

// Discover probes the well-known sitemap paths in order. Every probe that
// answers is kept, together with the child sitemaps it lists whose URL
// mentions inventory or vehicle. Unreachable probes are skipped, so the
// result may be empty but Discover never fails. URLs are unique and kept in
// discovery order.
func (d *Discoverer) Discover(ctx context.Context) []string {
	found := newOrderedSet()
	for _, p := range WellKnownSitemaps {
		d.probe(ctx, d.origin+p, found)
	}

	if d.robots {
		for _, sm := range d.robotsSitemaps(ctx) {
			if !found.has(sm) {
				d.probe(ctx, sm, found)
			}
		}
	}

	slog.Debug("sitemaps discovered", "origin", d.origin, "count", len(found.list()))
	return found.list()
}

func (d *Discoverer) probe(ctx context.Context, sitemapURL string, found *orderedSet) {
	text, ok := d.fetcher.FetchText(ctx, sitemapURL)
	if !ok {
		return
	}
	found.add(sitemapURL)

	index := extract.IsSitemapIndex(text)
	for _, loc := range extract.Locs(text) {
		if !inventoryLike(loc) {
			continue
		}
		// A urlset lists vehicle pages, not sitemaps; only .xml children
		// of a plain sitemap are followed.
		if index || isXMLPath(loc) {
			found.add(loc)
		}
	}
}

// robotsSitemaps returns the absolute Sitemap: URLs declared in robots.txt.
func (d *Discoverer) robotsSitemaps(ctx context.Context) []string {
	text, ok := d.fetcher.FetchText(ctx, d.origin+"/robots.txt")
	if !ok {
		return nil
	}
	data, err := robotstxt.FromString(text)
	if err != nil {
		slog.Debug("robots.txt unparsable", "origin", d.origin, "error", err)
		return nil
	}

	var out []string
	for _, sm := range data.Sitemaps {
		sm = strings.TrimSpace(sm)
		if strings.HasPrefix(sm, "http://") || strings.HasPrefix(sm, "https://") {
			out = append(out, sm)
		}
	}
	return out
}

// InventorySitemaps keeps the sitemap URLs that mention inventory or
// vehicle, in order.
func InventorySitemaps(sitemaps []string) []string {
	var out []string
	for _, sm := range sitemaps {
		if inventoryLike(sm) {
			out = append(out, sm)
		}
	}
	return out
}

func inventoryLike(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "inventory") || strings.Contains(s, "vehicle")
}

func isXMLPath(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".xml")
}
