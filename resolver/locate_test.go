package resolver

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/use-agent/dealermedia/models"
)

func TestSearchURLs(t *testing.T) {
	got := SearchURLs(testOrigin+"/", "T 12&x")
	want := []string{
		testOrigin + "/searchnew.aspx?pt=new&search=T+12%26x",
		testOrigin + "/searchused.aspx?pt=used&search=T+12%26x",
		testOrigin + "/inventory/?q=T+12%26x",
		testOrigin + "/cars/?q=T+12%26x",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SearchURLs() = %v", got)
	}
}

func TestLocate_DirectURLVerbatim(t *testing.T) {
	site := newFakeSite(nil)
	var tr Trace
	got := NewLocator(site, testOrigin).Locate(context.Background(), &tr, "T1", "not even a url", nil)
	if got != "not even a url" {
		t.Errorf("Locate() = %q", got)
	}
	if len(site.callLog()) != 0 {
		t.Error("direct URL must not be fetched by the locator")
	}
}

func TestLocate_SitemapOrder(t *testing.T) {
	first := testOrigin + "/a.xml"
	second := testOrigin + "/b.xml"
	site := newFakeSite(map[string]string{
		first:  `<urlset><url><loc>https://dealer.example/inventory/other</loc></url></urlset>`,
		second: `<urlset><url><loc>https://dealer.example/inventory/x-T1-a</loc></url><url><loc>https://dealer.example/inventory/x-t1-b</loc></url></urlset>`,
	})

	var tr Trace
	tr.Begin(models.RouteVehiclePage)
	got := NewLocator(site, testOrigin).Locate(context.Background(), &tr, "t1", "", []string{testOrigin + "/missing.xml", first, second})
	if got != "https://dealer.example/inventory/x-T1-a" {
		t.Errorf("Locate() = %q", got)
	}

	outcomes := []string{}
	for _, e := range tr.Entries() {
		outcomes = append(outcomes, e.Outcome)
		if e.Strategy != models.RouteVehiclePage {
			t.Errorf("entry strategy = %q", e.Strategy)
		}
	}
	want := []string{models.OutcomeUnavailable, models.OutcomeNoMatch, models.OutcomeMatch}
	if !reflect.DeepEqual(outcomes, want) {
		t.Errorf("trace outcomes = %v", outcomes)
	}
}

func TestLocate_SearchFallback(t *testing.T) {
	urls := SearchURLs(testOrigin, "T1")
	site := newFakeSite(map[string]string{
		urls[0]: `<p>No results</p>`,
		urls[1]: `<a href="https://dealer.example/vehicle-images/x.jpg"></a><a href="https://dealer.example/vehicle/2019-ford-escape-t1/">Escape</a>`,
	})

	var tr Trace
	got := NewLocator(site, testOrigin).Locate(context.Background(), &tr, "T1", "", nil)
	if got != "https://dealer.example/vehicle/2019-ford-escape-t1/" {
		t.Errorf("Locate() = %q", got)
	}
	if n := site.count(urls[2]); n != 0 {
		t.Error("search continued after a hit")
	}
}

func TestListingScan_Window(t *testing.T) {
	far := `<a href="/vehicle/far">x</a>` + strings.Repeat(" ", 3000) + `Stock: Q77`
	near := `<ul><li><a href="/specials/">Specials</a></li><li data-stock="Q77"><a href="/vehicle/2020-ford-edge-q77">Edge</a></li></ul>`
	site := newFakeSite(map[string]string{
		testOrigin + "/new-vehicles/":  far,
		testOrigin + "/used-vehicles/": near,
	})

	var tr Trace
	got := NewListingScanner(site, testOrigin, 0).Scan(context.Background(), &tr, "q77")
	if got != testOrigin+"/vehicle/2020-ford-edge-q77" {
		t.Errorf("Scan() = %q", got)
	}
	if n := site.count(testOrigin + "/inventory/"); n != 0 {
		t.Error("scan continued after a hit")
	}
}
