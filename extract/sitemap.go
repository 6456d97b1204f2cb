package extract

import (
	"html"
	"regexp"
	"strings"
)

var (
	locPattern        = regexp.MustCompile(`(?is)<loc>(.*?)</loc>`)
	imageLocPattern   = regexp.MustCompile(`(?is)<image:loc>(.*?)</image:loc>`)
	imageTitlePattern = regexp.MustCompile(`(?is)<image:title>(.*?)</image:title>`)
	urlCloser         = regexp.MustCompile(`(?i)</url>`)
)

// ImageBlock is the first sitemap <url> record matching an identifier.
type ImageBlock struct {
	VehicleURL string
	Title      string
	Images     []string
}

// xmlText trims a captured element body, unwrapping CDATA and entities.
func xmlText(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<![CDATA[") && strings.HasSuffix(s, "]]>") {
		s = strings.TrimSpace(s[len("<![CDATA[") : len(s)-len("]]>")])
	}
	return html.UnescapeString(s)
}

// Locs returns every <loc> value in document order. <image:loc> entries are
// not included.
func Locs(xml string) []string {
	matches := locPattern.FindAllStringSubmatch(xml, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if v := xmlText(m[1]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsSitemapIndex reports whether the document is a <sitemapindex>.
func IsSitemapIndex(xml string) bool {
	return strings.Contains(strings.ToLower(xml), "<sitemapindex")
}

// MatchImageBlock scans an image sitemap record by record (split on </url>)
// and returns the first record that has a <loc>, contains identifier
// (case-insensitive) anywhere in its text, and lists at least one photo on
// imageHost. The second result is false when no record qualifies.
func MatchImageBlock(xml, identifier, imageHost string) (ImageBlock, bool) {
	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle == "" {
		return ImageBlock{}, false
	}

	for _, block := range urlCloser.Split(xml, -1) {
		locs := Locs(block)
		if len(locs) == 0 {
			continue
		}
		if !strings.Contains(strings.ToLower(block), needle) {
			continue
		}

		images := blockImages(block, imageHost)
		if len(images) == 0 {
			continue
		}

		ib := ImageBlock{VehicleURL: locs[0], Images: images}
		if m := imageTitlePattern.FindStringSubmatch(block); m != nil {
			ib.Title = xmlText(m[1])
		}
		return ib, true
	}
	return ImageBlock{}, false
}

func blockImages(block, imageHost string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range imageLocPattern.FindAllStringSubmatch(block, -1) {
		u := xmlText(m[1])
		if !HasImageExt(u) || !OnHost(u, imageHost) {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
