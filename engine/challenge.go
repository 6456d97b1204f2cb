package engine

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ChallengeError is returned when the origin answered 2xx but served a bot
// challenge or block page instead of the document.
type ChallengeError struct {
	URL    string
	Vendor string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("%s challenge page for %s", e.Vendor, e.URL)
}

// challengeBodyLimit bounds the marker scan. Interstitials are small; real
// dealer pages are not and may mention the same words.
const challengeBodyLimit = 64 << 10

var challengeTitles = map[string]string{
	"just a moment...":                 "cloudflare",
	"attention required! | cloudflare": "cloudflare",
	"pardon our interruption":          "imperva",
	"access denied":                    "akamai",
}

var challengeMarkers = []struct {
	marker string
	vendor string
}{
	{"window._cf_chl_opt", "cloudflare"},
	{"_incapsula_resource", "imperva"},
	{`id="px-captcha"`, "perimeterx"},
	{"captcha-delivery.com", "datadome"},
}

// challengeVendor returns the bot-protection vendor whose interstitial body
// is, or "" for an ordinary document.
func challengeVendor(body string) string {
	if v, ok := challengeTitles[strings.ToLower(documentTitle(body))]; ok {
		return v
	}
	if len(body) > challengeBodyLimit {
		return ""
	}
	lower := strings.ToLower(body)
	for _, m := range challengeMarkers {
		if strings.Contains(lower, m.marker) {
			return m.vendor
		}
	}
	return ""
}

// documentTitle extracts the <title> content from raw HTML.
func documentTitle(body string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(body))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "head" {
				return ""
			}
		}
	}
}
