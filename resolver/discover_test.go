package resolver

import (
	"context"
	"reflect"
	"testing"
)

func TestDiscover(t *testing.T) {
	site := newFakeSite(map[string]string{
		testOrigin + "/sitemap_index.xml": `<sitemapindex>
<sitemap><loc>https://dealer.example/sitemap-pages.xml</loc></sitemap>
<sitemap><loc>https://dealer.example/feeds/vehicles</loc></sitemap>
</sitemapindex>`,
		testOrigin + "/sitemap.xml": `<urlset>
<url><loc>https://dealer.example/inventory/used-2019-ford-escape-t1</loc></url>
<url><loc>https://dealer.example/sitemap-inventory.xml</loc></url>
</urlset>`,
		testOrigin + "/sitemap-inventory.xml": `<urlset></urlset>`,
		testOrigin + "/robots.txt": "User-agent: *\nDisallow: /admin\n" +
			"Sitemap: https://dealer.example/vehicle-feed.xml\n" +
			"Sitemap: https://dealer.example/sitemap.xml\n",
		testOrigin + "/vehicle-feed.xml": `<urlset></urlset>`,
	})

	got := NewDiscoverer(site, testOrigin+"/", true).Discover(context.Background())
	want := []string{
		testOrigin + "/sitemap_index.xml",
		testOrigin + "/feeds/vehicles",
		testOrigin + "/sitemap.xml",
		testOrigin + "/sitemap-inventory.xml",
		testOrigin + "/vehicle-feed.xml",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discover() =\n%v\nwant\n%v", got, want)
	}
	if n := site.count(testOrigin + "/sitemap.xml"); n != 1 {
		t.Errorf("sitemap.xml fetched %d times, want 1", n)
	}
	if n := site.count(testOrigin + "/sitemap-vehicle.xml"); n != 1 {
		t.Errorf("missing probe fetched %d times, want 1", n)
	}
}

func TestDiscover_RobotsDisabled(t *testing.T) {
	site := newFakeSite(map[string]string{
		testOrigin + "/robots.txt": "Sitemap: https://dealer.example/vehicle-feed.xml\n",
	})
	got := NewDiscoverer(site, testOrigin, false).Discover(context.Background())
	if len(got) != 0 {
		t.Errorf("Discover() = %v, want empty", got)
	}
	if n := site.count(testOrigin + "/robots.txt"); n != 0 {
		t.Errorf("robots.txt fetched %d times with robots disabled", n)
	}
	if calls := site.callLog(); len(calls) != len(WellKnownSitemaps) {
		t.Errorf("calls = %v", calls)
	}
}

func TestInventorySitemaps(t *testing.T) {
	in := []string{
		"https://d.example/sitemap.xml",
		"https://d.example/Inventory-1.xml",
		"https://d.example/sitemap-vehicle.xml",
	}
	want := []string{in[1], in[2]}
	if got := InventorySitemaps(in); !reflect.DeepEqual(got, want) {
		t.Errorf("InventorySitemaps() = %v", got)
	}
}
