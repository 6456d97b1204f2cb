package extract

import (
	"reflect"
	"strings"
	"testing"
)

const cdn = "vehicle-images.dealerinspire.com"

const detailPage = `<html><head><title>Corwin Ford Tri-Cities</title></head><body>
<h1 class="vdp-title"> 2021 Ford
  F-150 XLT </h1>
<p>VIN: 1FTFW1E50MFA12345</p>
<img src="https://vehicle-images.dealerinspire.com/a1b2/1FTFW1E50MFA12345/photo1.jpg">
<img src="https://vehicle-images.dealerinspire.com/a1b2/1FTFW1E50MFA12345/photo2.webp?w=640">
<img src="https://vehicle-images.dealerinspire.com/stock/generic.jpeg">
<img src="https://vehicle-images.dealerinspire.com/a1b2/1FTFW1E50MFA12345/photo1.jpg">
<img src="https://other.example/1FTFW1E50MFA12345/x.jpg">
<img src="https://vehicle-images.dealerinspire.com/a1b2/logo.png">
</body></html>`

func TestPage(t *testing.T) {
	got := Page(detailPage, cdn)

	if got.Title != "2021 Ford F-150 XLT" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.VIN != "1FTFW1E50MFA12345" {
		t.Errorf("VIN = %q", got.VIN)
	}
	wantAll := []string{
		"https://vehicle-images.dealerinspire.com/a1b2/1FTFW1E50MFA12345/photo1.jpg",
		"https://vehicle-images.dealerinspire.com/a1b2/1FTFW1E50MFA12345/photo2.webp",
		"https://vehicle-images.dealerinspire.com/stock/generic.jpeg",
	}
	if !reflect.DeepEqual(got.AllImages, wantAll) {
		t.Errorf("AllImages = %v", got.AllImages)
	}
	if !reflect.DeepEqual(got.Images, wantAll[:2]) {
		t.Errorf("Images = %v, want the two VIN photos", got.Images)
	}
}

func TestPage_AdjacentURLsStaySeparate(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"srcset", `<img srcset="https://vehicle-images.dealerinspire.com/a/1.jpg,https://vehicle-images.dealerinspire.com/a/2.jpg">`},
		{"srcset with widths", `<img srcset="https://vehicle-images.dealerinspire.com/a/1.jpg 640w, https://vehicle-images.dealerinspire.com/a/2.jpg 1280w">`},
		{"css url", `<div style="background:url(https://vehicle-images.dealerinspire.com/a/1.jpg);x:url(https://vehicle-images.dealerinspire.com/a/2.jpg)"></div>`},
		{"one run", `https://vehicle-images.dealerinspire.com/a/1.jpg;https://vehicle-images.dealerinspire.com/a/2.jpg`},
	}
	want := []string{
		"https://vehicle-images.dealerinspire.com/a/1.jpg",
		"https://vehicle-images.dealerinspire.com/a/2.jpg",
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Page(tt.html, cdn).Images; !reflect.DeepEqual(got, want) {
				t.Errorf("Images = %v, want %v", got, want)
			}
		})
	}
}

func TestPage_VINWithoutMatchingPhotosFallsBack(t *testing.T) {
	html := `<h1>2020 Ford Escape</h1><span>VIN</span>: <b>1FMCU9G60LUA00001</b>
<img src="https://img.vehicle-images.dealerinspire.com/stock/escape-1.jpg">
<img src="https://img.vehicle-images.dealerinspire.com/stock/escape-2.jpg">`

	got := Page(html, cdn)
	if got.VIN != "1FMCU9G60LUA00001" {
		t.Errorf("VIN across inline tags = %q", got.VIN)
	}
	if len(got.Images) != 2 {
		t.Errorf("expected fallback to both CDN photos, got %v", got.Images)
	}
}

func TestPage_EscapedJSON(t *testing.T) {
	html := `<script>var photos = ["https:\/\/vehicle-images.dealerinspire.com\/x\/a.jpg"];</script>`
	got := Page(html, cdn)
	if len(got.Images) != 1 || got.Images[0] != "https://vehicle-images.dealerinspire.com/x/a.jpg" {
		t.Errorf("Images = %v", got.Images)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"first h1", `<h1>One</h1><h1>Two</h1>`, "One"},
		{"nested markup", `<h1><span>2022</span> Ford <em>Maverick</em></h1>`, "2022 Ford Maverick"},
		{"vehicle title fallback", `<html><head><title> Used 2021 Ford  F-150 XLT | Corwin Ford </title></head><body></body></html>`, "Used 2021 Ford F-150 XLT"},
		{"site title ignored", `<html><head><title>Corwin Ford | Used Cars</title></head><body></body></html>`, ""},
		{"nothing", `<p>no headings</p>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.html); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRestrictToVIN(t *testing.T) {
	imgs := []string{
		"https://c.example/d/1FTFW1E50MFA12345-photos/1.jpg",
		"https://c.example/d/other/2.jpg",
		"https://c.example/1FTFW1E50MFA12345.jpg",
	}
	got := RestrictToVIN(imgs, "1ftfw1e50mfa12345")
	if !reflect.DeepEqual(got, imgs[:1]) {
		t.Errorf("RestrictToVIN = %v", got)
	}
	if got := RestrictToVIN(imgs[1:2], "1FTFW1E50MFA12345"); !reflect.DeepEqual(got, imgs[1:2]) {
		t.Errorf("no VIN directory should keep the input, got %v", got)
	}
}

func TestHasImageExtAndOnHost(t *testing.T) {
	for u, want := range map[string]bool{
		"https://c.example/a.JPG":         true,
		"https://c.example/a.jpeg?w=1":    true,
		"https://c.example/a.webp#frag":   true,
		"https://c.example/a.png":         false,
		"https://c.example/a.jpg/details": false,
	} {
		if got := HasImageExt(u); got != want {
			t.Errorf("HasImageExt(%q) = %v", u, got)
		}
	}

	for u, want := range map[string]bool{
		"https://vehicle-images.dealerinspire.com/a.jpg":      true,
		"https://x.vehicle-images.dealerinspire.com/a.jpg":    true,
		"https://evilvehicle-images.dealerinspire.com/a.jpg":  false,
		"//vehicle-images.dealerinspire.com/a.jpg":            false,
		"ftp://vehicle-images.dealerinspire.com/a.jpg":        false,
		"https://vehicle-images.dealerinspire.com.evil/a.jpg": false,
	} {
		if got := OnHost(u, cdn); got != want {
			t.Errorf("OnHost(%q) = %v", u, got)
		}
	}
}

const imageSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">
<url><loc>https://d.example/inventory/used-2019-ford-escape-t9999</loc>
<image:image><image:loc>https://vehicle-images.dealerinspire.com/x/T9999/1.jpg</image:loc></image:image></url>
<url><loc>https://d.example/inventory/new-2024-ford-bronco-big-bend</loc>
<image:image><image:loc>https://vehicle-images.dealerinspire.com/y/4.png</image:loc><image:caption>Stock T1234</image:caption></image:image>
</url>
<url><loc>https://d.example/inventory/new-2024-ford-bronco-t1234</loc>
<image:image><image:loc>https://vehicle-images.dealerinspire.com/y/T1234/1.jpg</image:loc><image:title>2024 Ford Bronco Big Bend</image:title></image:image>
<image:image><image:loc>https://vehicle-images.dealerinspire.com/y/T1234/2.JPEG</image:loc></image:image>
<image:image><image:loc><![CDATA[https://vehicle-images.dealerinspire.com/y/T1234/3.webp]]></image:loc></image:image>
<image:image><image:loc>https://vehicle-images.dealerinspire.com/y/T1234/1.jpg</image:loc></image:image>
</url>
<url><loc>https://d.example/inventory/t1234-older</loc><image:image><image:loc>https://vehicle-images.dealerinspire.com/z/9.jpg</image:loc></image:image></url>
</urlset>`

func TestMatchImageBlock_FirstBlockWithImagesWins(t *testing.T) {
	got, ok := MatchImageBlock(imageSitemap, "t1234", cdn)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.VehicleURL != "https://d.example/inventory/new-2024-ford-bronco-t1234" {
		t.Errorf("VehicleURL = %q", got.VehicleURL)
	}
	if got.Title != "2024 Ford Bronco Big Bend" {
		t.Errorf("Title = %q", got.Title)
	}
	want := []string{
		"https://vehicle-images.dealerinspire.com/y/T1234/1.jpg",
		"https://vehicle-images.dealerinspire.com/y/T1234/2.JPEG",
		"https://vehicle-images.dealerinspire.com/y/T1234/3.webp",
	}
	if !reflect.DeepEqual(got.Images, want) {
		t.Errorf("Images = %v", got.Images)
	}
}

func TestMatchImageBlock_NoMatch(t *testing.T) {
	if _, ok := MatchImageBlock(imageSitemap, "ZZZ999", cdn); ok {
		t.Error("unexpected match")
	}
	if _, ok := MatchImageBlock(imageSitemap, "  ", cdn); ok {
		t.Error("empty identifier must never match")
	}
	if _, ok := MatchImageBlock(imageSitemap, "t9999", "other-cdn.example"); ok {
		t.Error("photos on another host must not count")
	}
}

func TestLocs(t *testing.T) {
	xml := `<sitemapindex><sitemap><loc> https://d.example/sitemap-inventory.xml </loc></sitemap>
<sitemap><loc><![CDATA[https://d.example/sitemap-pages.xml]]></loc></sitemap>
<sitemap><loc>https://d.example/feed.xml?a=1&amp;b=2</loc></sitemap></sitemapindex>`
	want := []string{
		"https://d.example/sitemap-inventory.xml",
		"https://d.example/sitemap-pages.xml",
		"https://d.example/feed.xml?a=1&b=2",
	}
	if got := Locs(xml); !reflect.DeepEqual(got, want) {
		t.Errorf("Locs = %v", got)
	}
	if !IsSitemapIndex(xml) || IsSitemapIndex(imageSitemap) {
		t.Error("IsSitemapIndex misclassified")
	}
	if got := Locs(imageSitemap); len(got) != 4 {
		t.Errorf("image:loc entries leaked into Locs: %v", got)
	}
}

func TestVehicleURL(t *testing.T) {
	page := `<a href="https://d.example/vehicle-images/thumb.jpg"><img></a>
<script>{"url":"https:\/\/d.example\/vehicle\/2024-ford-bronco-T1234\/"}</script>
<a href="https://d.example/vehicle/other/">x</a>`
	if got := VehicleURL(page); got != "https://d.example/vehicle/2024-ford-bronco-T1234/" {
		t.Errorf("VehicleURL = %q", got)
	}
	if got := VehicleURL(`<p>No results</p>`); got != "" {
		t.Errorf("VehicleURL = %q, want empty", got)
	}
}

func TestNearbyHref(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		id     string
		window int
		want   string
	}{
		{
			name:   "vehicle href preferred",
			text:   `<div><a href="/specials">Deals</a><a href='/vehicle/new-2024-bronco'>Bronco</a><span>Stock #T1234</span></div>`,
			id:     "t1234",
			window: 400,
			want:   "/vehicle/new-2024-bronco",
		},
		{
			name:   "any href fallback",
			text:   `<a href="/inventory/detail?id=9&amp;x=1">See</a> Stock: ABC12`,
			id:     "abc12",
			window: 200,
			want:   "/inventory/detail?id=9&x=1",
		},
		{
			name:   "href outside window",
			text:   `<a href="/vehicle/far">x</a>` + strings.Repeat(" ", 500) + "ABC12",
			id:     "ABC12",
			window: 100,
			want:   "",
		},
		{
			name:   "identifier missing",
			text:   `<a href="/vehicle/1">x</a>`,
			id:     "nope",
			window: 2000,
			want:   "",
		},
		{
			name:   "regex metacharacters in identifier",
			text:   `<a href="/vehicle/a">x</a> stock A+B.1`,
			id:     "a+b.1",
			window: 200,
			want:   "/vehicle/a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearbyHref(tt.text, tt.id, tt.window); got != tt.want {
				t.Errorf("NearbyHref() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVINFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://d.example/inventory/used-2021-ford-f-150-xlt-1ftfw1e50mfa12345/", "1FTFW1E50MFA12345"},
		{"https://d.example/vehicle/1FMCU9G60LUA00001?src=x", "1FMCU9G60LUA00001"},
		// Letters only.
		{"https://d.example/abcdefghjklmnprst/", ""},
		{"https://d.example/1FTFW1E50MFA123456/", ""},
		// I is not a VIN character.
		{"https://d.example/1FTFW1E50MFA1234I/", ""},
		// Same length as a VIN, but a trim slug.
		{"https://d.example/used-2021-ford-f150-supercrew4x4truck/", ""},
		{"https://d.example/certifiedused2024/", ""},
		{"https://d.example/inventory/new-2022-tesla-model-3-5yj3e1ea1nf123456", "5YJ3E1EA1NF123456"},
		{"https://cdn.example/vehicle/abc", ""},
	}
	for _, tt := range tests {
		if got := VINFromURL(tt.url); got != tt.want {
			t.Errorf("VINFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestParseYMM(t *testing.T) {
	got, ok := ParseYMM("Used 2021 Ford F-150 XLT SuperCrew")
	if !ok {
		t.Fatal("expected a parse")
	}
	want := YMM{Year: "2021", Make: "Ford", Model: "F-150", Trim: "XLT SuperCrew"}
	if got != want {
		t.Errorf("ParseYMM = %+v", got)
	}
	if _, ok := ParseYMM("Vehicle"); ok {
		t.Error("plain title should not parse")
	}
}
