package resolver

import (
	"context"
	"net/url"
	"strings"

	"github.com/use-agent/dealermedia/extract"
	"github.com/use-agent/dealermedia/models"
)

// ListingPages are the generic inventory index pages, in scan order.
var ListingPages = []string{
	"/new-vehicles/",
	"/used-vehicles/",
	"/inventory/",
	"/cars/",
}

// DefaultListingWindow is the text window searched around an identifier.
const DefaultListingWindow = 2000

// ListingScanner looks for a link next to the identifier on listing pages.
type ListingScanner struct {
	fetcher TextFetcher
	origin  string
	window  int
}

// NewListingScanner creates a ListingScanner. A window <= 0 selects
// DefaultListingWindow.
func NewListingScanner(f TextFetcher, origin string, window int) *ListingScanner {
	if window <= 0 {
		window = DefaultListingWindow
	}
	return &ListingScanner{fetcher: f, origin: strings.TrimRight(origin, "/"), window: window}
}

// Scan fetches each listing page in order and returns the absolute URL of
// the first link found near the identifier, or "".
func (s *ListingScanner) Scan(ctx context.Context, t *Trace, identifier string) string {
	if strings.TrimSpace(identifier) == "" {
		t.add(models.MethodListing, "", models.OutcomeSkipped, "no identifier")
		return ""
	}

	base, err := url.Parse(s.origin + "/")
	if err != nil {
		t.add(models.MethodListing, s.origin, models.OutcomeUnavailable, "bad origin")
		return ""
	}

	for _, p := range ListingPages {
		pageURL := s.origin + p
		text, ok := s.fetcher.FetchText(ctx, pageURL)
		if !ok {
			t.add(models.MethodListing, pageURL, models.OutcomeUnavailable, "")
			continue
		}

		href := extract.NearbyHref(text, identifier, s.window)
		if href == "" {
			t.add(models.MethodListing, pageURL, models.OutcomeNoMatch, "")
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			t.add(models.MethodListing, pageURL, models.OutcomeNoMatch, "unparsable href")
			continue
		}

		abs := base.ResolveReference(ref).String()
		t.add(models.MethodListing, pageURL, models.OutcomeMatch, abs)
		return abs
	}
	return ""
}
