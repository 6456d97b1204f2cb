package resolver

import (
	"net/url"
	"strings"

	"github.com/use-agent/dealermedia/extract"
)

// Normalizer cleans a winning image list before it is returned.
type Normalizer struct {
	// ImageHost is the only host allowed in the output.
	ImageHost string
	// AssetOrigin resolves root-relative entries. Empty drops them.
	AssetOrigin string
}

// Normalize trims entries, drops empty ones, upgrades scheme-relative URLs
// to https, resolves root-relative paths against AssetOrigin, drops
// anything off ImageHost or without a photo extension and removes
// duplicates keeping the first occurrence.
func (n Normalizer) Normalize(raw []string) []string {
	var base *url.URL
	if n.AssetOrigin != "" {
		if u, err := url.Parse(strings.TrimRight(n.AssetOrigin, "/") + "/"); err == nil && u.IsAbs() {
			base = u
		}
	}

	out := newOrderedSet()
	for _, s := range raw {
		s = strings.TrimSpace(s)
		switch {
		case s == "":
			continue
		case strings.HasPrefix(s, "//"):
			s = "https:" + s
		case strings.HasPrefix(s, "/"):
			if base == nil {
				continue
			}
			ref, err := url.Parse(s)
			if err != nil {
				continue
			}
			s = base.ResolveReference(ref).String()
		}

		if !n.allowedHost(s) {
			continue
		}
		if !extract.HasImageExt(s) {
			continue
		}
		out.add(s)
	}
	return out.list()
}

func (n Normalizer) allowedHost(s string) bool {
	if n.ImageHost != "" {
		return extract.OnHost(s, n.ImageHost)
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
