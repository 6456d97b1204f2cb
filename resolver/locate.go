package resolver

import (
	"context"
	"net/url"
	"strings"

	"github.com/use-agent/dealermedia/extract"
	"github.com/use-agent/dealermedia/models"
)

// SearchPaths are the dealer search endpoints tried by the Locator. %s is
// replaced by the query-escaped identifier.
var SearchPaths = []string{
	"/searchnew.aspx?pt=new&search=%s",
	"/searchused.aspx?pt=used&search=%s",
	"/inventory/?q=%s",
	"/cars/?q=%s",
}

// Locator finds the vehicle detail page URL for an identifier.
type Locator struct {
	fetcher TextFetcher
	origin  string
}

// NewLocator creates a Locator searching origin.
func NewLocator(f TextFetcher, origin string) *Locator {
	return &Locator{fetcher: f, origin: strings.TrimRight(origin, "/")}
}

// Locate tries, in order: directURL verbatim; the first <loc> of any
// sitemap (in the given order) containing the identifier; the first
// /vehicle URL on any search results page. It returns "" when every tier
// is exhausted, which is not an error.
func (l *Locator) Locate(ctx context.Context, t *Trace, identifier, directURL string, sitemaps []string) string {
	if directURL != "" {
		t.add(models.MethodDirectURL, directURL, models.OutcomeMatch, "")
		return directURL
	}

	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle == "" {
		t.add(models.MethodSitemap, "", models.OutcomeSkipped, "no identifier")
		return ""
	}

	if u := l.fromSitemaps(ctx, t, needle, sitemaps); u != "" {
		return u
	}
	return l.fromSearch(ctx, t, identifier)
}

func (l *Locator) fromSitemaps(ctx context.Context, t *Trace, needle string, sitemaps []string) string {
	for _, sm := range sitemaps {
		text, ok := l.fetcher.FetchText(ctx, sm)
		if !ok {
			t.add(models.MethodSitemap, sm, models.OutcomeUnavailable, "")
			continue
		}
		for _, loc := range extract.Locs(text) {
			if strings.Contains(strings.ToLower(loc), needle) {
				t.add(models.MethodSitemap, sm, models.OutcomeMatch, loc)
				return loc
			}
		}
		t.add(models.MethodSitemap, sm, models.OutcomeNoMatch, "")
	}
	return ""
}

func (l *Locator) fromSearch(ctx context.Context, t *Trace, identifier string) string {
	for _, u := range SearchURLs(l.origin, identifier) {
		text, ok := l.fetcher.FetchText(ctx, u)
		if !ok {
			t.add(models.MethodSearch, u, models.OutcomeUnavailable, "")
			continue
		}
		if hit := extract.VehicleURL(text); hit != "" {
			t.add(models.MethodSearch, u, models.OutcomeMatch, hit)
			return hit
		}
		t.add(models.MethodSearch, u, models.OutcomeNoMatch, "")
	}
	return ""
}

// SearchURLs builds the search page URLs for identifier on origin.
func SearchURLs(origin, identifier string) []string {
	origin = strings.TrimRight(origin, "/")
	key := url.QueryEscape(strings.TrimSpace(identifier))
	out := make([]string, len(SearchPaths))
	for i, p := range SearchPaths {
		out[i] = origin + strings.Replace(p, "%s", key, 1)
	}
	return out
}
