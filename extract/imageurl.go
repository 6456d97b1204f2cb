// Package extract pulls vehicle data out of raw dealer markup: titles, VINs,
// CDN photo URLs, sitemap entries and nearby links. Everything here is a
// pure function of its input text; nothing touches the network.
//
// Dealer HTML is routinely malformed, so extraction is pattern based. Only
// the <h1> title goes through a parser, because goquery tolerates the same
// breakage a browser does.
package extract

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

// ImageExtensions are the accepted photo file extensions.
var ImageExtensions = []string{".jpg", ".jpeg", ".webp"}

// HasImageExt reports whether the URL path ends in an accepted extension,
// ignoring case, query and fragment.
func HasImageExt(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	p = strings.ToLower(p)
	for _, ext := range ImageExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// OnHost reports whether rawURL is an absolute http(s) URL on host or one of
// its subdomains.
func OnHost(rawURL, host string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	h := strings.ToLower(u.Hostname())
	host = strings.ToLower(host)
	return h == host || strings.HasSuffix(h, "."+host)
}

// cdnImagePattern matches absolute photo URLs on host (or a subdomain).
// The path stops at the first photo extension and never crosses a srcset
// comma or a CSS url() paren, so adjacent URLs stay separate.
func cdnImagePattern(host string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)https?://(?:[^/"'\s<>,()]*\.)?` + regexp.QuoteMeta(host) +
		`/[^"'\s<>,()]+?\.(?:jpe?g|webp)\b`)
}

// unescapeMarkup undoes the escaping URLs pick up inside inline JSON and
// attributes (\/ and &amp;).
func unescapeMarkup(s string) string {
	return html.UnescapeString(strings.ReplaceAll(s, `\/`, `/`))
}

// CDNImages returns every photo URL on host found in text, deduplicated in
// first-seen order.
func CDNImages(text, host string) []string {
	if host == "" {
		return nil
	}
	text = unescapeMarkup(text)
	var out []string
	seen := make(map[string]struct{})
	for _, m := range cdnImagePattern(host).FindAllString(text, -1) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// RestrictToVIN keeps the URLs that have a directory named after vin (the
// segment may carry a suffix, e.g. "<VIN>-photos"). If none do, images is
// returned unchanged.
func RestrictToVIN(images []string, vin string) []string {
	if vin == "" {
		return images
	}
	vin = strings.ToUpper(vin)

	var byVIN []string
	for _, img := range images {
		if hasVINDir(img, vin) {
			byVIN = append(byVIN, img)
		}
	}
	if len(byVIN) == 0 {
		return images
	}
	return byVIN
}

func hasVINDir(rawURL, vin string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return false
	}
	for _, seg := range segments[:len(segments)-1] {
		if strings.HasPrefix(strings.ToUpper(seg), vin) {
			return true
		}
	}
	return false
}
