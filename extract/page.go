package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// PageData is what a vehicle detail page yields.
type PageData struct {
	Title string
	// VIN is the full 17-character VIN printed on the page, upper-cased.
	VIN string
	// Images are the CDN photos for the vehicle, VIN-restricted when possible.
	Images []string
	// AllImages is every CDN photo on the page, before VIN restriction.
	AllImages []string
}

var (
	h1Matcher = cascadia.MustCompile("h1")

	// pageVINPattern finds a VIN following the literal "VIN" label, allowing
	// separators and inline tags between them (VIN:</b> <span>...).
	pageVINPattern = regexp.MustCompile(`(?i)\bVIN(?:[\s:#="']|<[^>]*>){0,12}([A-HJ-NPR-Z0-9]{17})\b`)

	spaceRun = regexp.MustCompile(`\s+`)
)

// Page extracts title, VIN and CDN photos from a vehicle detail page.
func Page(rawHTML, imageHost string) PageData {
	all := CDNImages(rawHTML, imageHost)
	vin := PageVIN(rawHTML)
	return PageData{
		Title:     Title(rawHTML),
		VIN:       vin,
		Images:    RestrictToVIN(all, vin),
		AllImages: all,
	}
}

// PageVIN returns the VIN labelled "VIN" on the page, or "".
func PageVIN(rawHTML string) string {
	m := pageVINPattern.FindStringSubmatch(rawHTML)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// Title returns the text of the first <h1>. Without one it falls back to
// <title>, cut at the first "|" separator, but only when that reads as a
// year-make-model title; a bare site name ("Corwin Ford | Used Cars") is
// not a vehicle title. Whitespace is collapsed. Returns "" when nothing qualifies.
func Title(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err == nil {
		if t := collapse(doc.FindMatcher(h1Matcher).First().Text()); t != "" {
			return t
		}
	}
	if t, _, _ := strings.Cut(documentTitle(rawHTML), "|"); t != "" {
		t = strings.TrimSpace(t)
		if _, ok := ParseYMM(t); ok {
			return t
		}
	}
	return ""
}

// documentTitle uses the Go HTML tokenizer to find the first <title> element.
func documentTitle(rawHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	inTitle := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				return collapse(string(tokenizer.Text()))
			}
		case html.EndTagToken:
			if inTitle {
				return ""
			}
		}
	}
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
