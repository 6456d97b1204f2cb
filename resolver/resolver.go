// Package resolver finds a dealer vehicle's photos from a sparse locator
// (partial VIN, stock number or pasted page URL).
//
// Strategies run strictly in order and the first one that yields at least
// one photo wins:
//
//	directUrl         fetch the pasted page
//	vehiclePage       locate the page via sitemaps or site search, fetch it
//	listing           find a link next to the identifier on listing pages
//	inventorySitemaps read photos straight out of image sitemaps
//
// Every probe is recorded in the returned debug trace. A Resolver holds no
// per-request state and is safe for concurrent use.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/use-agent/dealermedia/config"
	"github.com/use-agent/dealermedia/extract"
	"github.com/use-agent/dealermedia/models"
)

// DefaultTitle is used when no source yields a vehicle title.
const DefaultTitle = "Vehicle"

// Keys of debug.countsFound.
const (
	CountSitemaps          = "sitemaps"
	CountInventorySitemaps = "inventorySitemaps"
	CountCandidates        = "candidates"
	CountRawImages         = "rawImages"
	CountImages            = "images"
)

// TextFetcher fetches the body of a URL. Every failure is reported as
// ok == false; implementations must not panic or block past ctx.
type TextFetcher interface {
	FetchText(ctx context.Context, rawURL string) (text string, ok bool)
}

// Resolver runs the strategy chain against one dealer site.
type Resolver struct {
	fetcher    TextFetcher
	imageHost  string
	discoverer *Discoverer
	locator    *Locator
	listings   *ListingScanner
	miner      *Miner
	normalizer Normalizer
	strategies []strategy
}

// strategy is one link of the fallback chain.
type strategy struct {
	route string
	try   func(ctx context.Context, r *resolution) found
}

// found is what a strategy produced. images may be empty.
type found struct {
	images []string
	url    string
	title  string
	vin    string
}

// resolution is the state of a single Resolve call.
type resolution struct {
	req        models.LocatorRequest
	identifier string
	trace      Trace
	counts     map[string]int

	discovered bool
	sitemaps   []string

	// pageURL is the page the vehiclePage strategy located, if any.
	pageURL string
	fetched map[string]struct{}
}

// New creates a Resolver for the dealer site described by site.
func New(f TextFetcher, site config.SiteConfig) *Resolver {
	rv := &Resolver{
		fetcher:    f,
		imageHost:  site.ImageHost,
		discoverer: NewDiscoverer(f, site.Origin, site.RobotsSitemaps),
		locator:    NewLocator(f, site.Origin),
		listings:   NewListingScanner(f, site.Origin, site.ListingWindow),
		miner:      NewMiner(f, site.ImageHost),
		normalizer: Normalizer{ImageHost: site.ImageHost, AssetOrigin: site.AssetOrigin},
	}
	rv.strategies = []strategy{
		{route: models.RouteDirectURL, try: rv.tryDirect},
		{route: models.RouteVehiclePage, try: rv.tryDiscoveredPage},
		{route: models.RouteListing, try: rv.tryListing},
		{route: models.RouteInventorySitemaps, try: rv.tryInventoryMine},
	}
	return rv
}

// Resolve runs the strategies in order and returns the first non-empty
// photo set. When every strategy comes up empty it returns a
// *models.ResolveError with code VEHICLE_NOT_FOUND carrying the full trace.
// Unexpected faults, including panics, become INTERNAL_ERROR.
func (rv *Resolver) Resolve(ctx context.Context, req models.LocatorRequest) (result *models.MediaResult, err error) {
	start := time.Now()
	req.Normalize()

	defer func() {
		if p := recover(); p != nil {
			slog.Error("resolver panic",
				"panic", p,
				"vin_last8", req.VinLast8,
				"stock", req.Stock,
				"url", req.DirectURL,
				"stack", string(debug.Stack()),
			)
			result = nil
			err = models.NewResolveError(models.ErrCodeInternal, fmt.Sprint(p), nil)
		}
	}()

	if req.Empty() {
		return nil, models.NewResolveError(models.ErrCodeInvalidInput, models.MsgMissingLocator, nil)
	}

	r := &resolution{
		req:        req,
		identifier: Identifier(req),
		counts: map[string]int{
			CountSitemaps:          0,
			CountInventorySitemaps: 0,
			CountCandidates:        0,
			CountRawImages:         0,
			CountImages:            0,
		},
		fetched: make(map[string]struct{}),
	}

	for _, s := range rv.strategies {
		if cerr := cancelled(ctx); cerr != nil {
			return nil, cerr
		}

		r.trace.Begin(s.route)
		slog.Debug("strategy starting", "route", s.route, "identifier", r.identifier)

		f := s.try(ctx, r)
		images := rv.normalizer.Normalize(f.images)
		if len(images) == 0 {
			slog.Debug("strategy empty", "route", s.route, "identifier", r.identifier)
			continue
		}

		r.counts[CountRawImages] = len(f.images)
		r.counts[CountImages] = len(images)
		res := &models.MediaResult{
			Meta:   rv.meta(r, f),
			Images: images,
			Debug:  *r.debugInfo(s.route),
		}
		slog.Info("vehicle media resolved",
			"route", s.route,
			"identifier", r.identifier,
			"images", len(images),
			"probes", r.trace.Len(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return res, nil
	}

	// Fetches fail as unavailable once ctx is done, so an exhausted chain
	// under a cancelled ctx is a fault, not a miss.
	if cerr := cancelled(ctx); cerr != nil {
		return nil, cerr
	}

	slog.Info("vehicle not found",
		"identifier", r.identifier,
		"probes", r.trace.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil, models.NotFound(r.debugInfo(""))
}

func cancelled(ctx context.Context) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.NewResolveError(models.ErrCodeInternal, "resolution cancelled", ctxErr)
	}
	return nil
}

func (rv *Resolver) tryDirect(ctx context.Context, r *resolution) found {
	if r.req.DirectURL == "" {
		r.trace.add(models.MethodDirectURL, "", models.OutcomeSkipped, "no url")
		return found{}
	}
	pageURL := rv.locator.Locate(ctx, &r.trace, r.identifier, r.req.DirectURL, nil)
	return rv.fromPage(ctx, r, pageURL)
}

func (rv *Resolver) tryDiscoveredPage(ctx context.Context, r *resolution) found {
	if r.identifier == "" {
		r.trace.add(models.MethodSitemap, "", models.OutcomeSkipped, "no identifier")
		return found{}
	}
	pageURL := rv.locator.Locate(ctx, &r.trace, r.identifier, "", rv.sitemaps(ctx, r))
	if pageURL == "" {
		return found{}
	}
	r.pageURL = pageURL
	return rv.fromPage(ctx, r, pageURL)
}

func (rv *Resolver) tryListing(ctx context.Context, r *resolution) found {
	pageURL := rv.listings.Scan(ctx, &r.trace, r.identifier)
	if pageURL == "" {
		return found{}
	}
	return rv.fromPage(ctx, r, pageURL)
}

func (rv *Resolver) tryInventoryMine(ctx context.Context, r *resolution) found {
	if r.identifier == "" {
		r.trace.add(models.MethodInventorySitemap, "", models.OutcomeSkipped, "no identifier")
		return found{}
	}
	block, ok := rv.miner.Mine(ctx, &r.trace, r.identifier, rv.sitemaps(ctx, r))
	if !ok {
		return found{}
	}
	r.counts[CountCandidates]++

	pageURL := r.pageURL
	if pageURL == "" {
		pageURL = block.VehicleURL
	}
	return found{
		images: block.Images,
		url:    pageURL,
		title:  block.Title,
		vin:    extract.VINFromURL(block.VehicleURL),
	}
}

// fromPage fetches a vehicle detail page and extracts its photos. A page
// already fetched during this resolution is not fetched again.
func (rv *Resolver) fromPage(ctx context.Context, r *resolution, pageURL string) found {
	if _, seen := r.fetched[pageURL]; seen {
		r.trace.add(models.MethodPage, pageURL, models.OutcomeSkipped, "already fetched")
		return found{url: pageURL}
	}
	r.fetched[pageURL] = struct{}{}
	r.counts[CountCandidates]++

	text, ok := rv.fetcher.FetchText(ctx, pageURL)
	if !ok {
		r.trace.add(models.MethodPage, pageURL, models.OutcomeUnavailable, "")
		return found{url: pageURL}
	}

	page := extract.Page(text, rv.imageHost)
	r.trace.addImages(models.MethodPage, pageURL, len(page.Images))
	return found{images: page.Images, url: pageURL, title: page.Title, vin: page.VIN}
}

// sitemaps runs discovery at most once per resolution.
func (rv *Resolver) sitemaps(ctx context.Context, r *resolution) []string {
	if !r.discovered {
		r.discovered = true
		r.sitemaps = rv.discoverer.Discover(ctx)
		r.counts[CountSitemaps] = len(r.sitemaps)
		r.counts[CountInventorySitemaps] = len(InventorySitemaps(r.sitemaps))
	}
	return r.sitemaps
}

// meta assembles the vehicle description of a winning strategy.
func (rv *Resolver) meta(r *resolution, f found) models.Meta {
	title := f.title
	if title == "" {
		title = DefaultTitle
	}
	m := models.Meta{URL: f.url, Title: title, Stock: r.req.Stock}
	if ymm, ok := extract.ParseYMM(title); ok {
		m.Year, m.Make, m.Model, m.Trim = ymm.Year, ymm.Make, ymm.Model, ymm.Trim
	}

	vin := f.vin
	if vin == "" {
		vin = urlVIN(r.req)
	}
	if vin != "" {
		m.VIN = vin
		m.VinLast8 = vin[len(vin)-8:]
	} else {
		m.VinLast8 = r.req.VinLast8
	}
	return m
}

func (r *resolution) debugInfo(route string) *models.Debug {
	return &models.Debug{
		Route:       route,
		Identifier:  r.identifier,
		Trace:       r.trace.Entries(),
		CountsFound: r.counts,
	}
}
