package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/use-agent/dealermedia/config"
	"github.com/use-agent/dealermedia/engine"
	"github.com/use-agent/dealermedia/models"
	"github.com/use-agent/dealermedia/scraper"
)

// TestResolve_OverHTTP runs the chain against a fake dealer site through the
// real fetch stack. The vehicle page answers 403 so only the image sitemap
// can produce photos.
func TestResolve_OverHTTP(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Chrome") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/robots.txt":
			w.Write([]byte("User-agent: *\nSitemap: " + srv.URL + "/vehicle-sitemap.xml\n"))
		case "/sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(`<urlset><url><loc>` + srv.URL + `/inventory/used-2019-ford-ranger-r42</loc></url></urlset>`))
		case "/vehicle-sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(`<urlset xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">
<url><loc>` + srv.URL + `/inventory/used-2019-ford-ranger-r42</loc>
<image:image><image:loc>https://vehicle-images.dealerinspire.com/r/R42-1.jpg</image:loc><image:title>2019 Ford Ranger Lariat</image:title></image:image>
<image:image><image:loc>https://vehicle-images.dealerinspire.com/r/R42-2.jpg</image:loc></image:image>
</url></urlset>`))
		case "/inventory/used-2019-ford-ranger-r42":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dispatcher := engine.NewDispatcher([]engine.Engine{engine.NewHTTPEngine(engine.HTTPOptions{})}, nil)
	fetcher := scraper.New(dispatcher, config.BrowserConfig{})

	rv := New(fetcher, config.SiteConfig{
		Origin:         srv.URL,
		ImageHost:      testCDN,
		RobotsSitemaps: true,
	})
	res, err := rv.Resolve(context.Background(), models.LocatorRequest{Stock: "R42"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Debug.Route != models.RouteInventorySitemaps {
		t.Errorf("Route = %q", res.Debug.Route)
	}
	if len(res.Images) != 2 {
		t.Errorf("Images = %v", res.Images)
	}
	if res.Meta.URL != srv.URL+"/inventory/used-2019-ford-ranger-r42" {
		t.Errorf("Meta.URL = %q", res.Meta.URL)
	}
	if res.Meta.Model != "Ranger" || res.Meta.Trim != "Lariat" {
		t.Errorf("Meta = %+v", res.Meta)
	}

	var blocked bool
	for _, e := range res.Debug.Trace {
		if e.Method == models.MethodPage && e.Outcome == models.OutcomeUnavailable {
			blocked = true
		}
	}
	if !blocked {
		t.Errorf("trace does not show the blocked page fetch: %+v", res.Debug.Trace)
	}
}
