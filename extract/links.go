package extract

import (
	"regexp"
	"strings"
)

var (
	vehicleURLPattern  = regexp.MustCompile(`(?i)https?://[^"'\s<>]+/vehicle[^"'\s<>]+`)
	vehicleHrefPattern = regexp.MustCompile(`(?i)href\s*=\s*["']([^"']*/vehicle[^"']*)["']`)
	anyHrefPattern     = regexp.MustCompile(`(?i)href\s*=\s*["']([^"']+)["']`)

	// vinRun finds alphanumeric runs; VINFromURL checks each for VIN shape.
	vinRun      = regexp.MustCompile(`[A-Za-z0-9]+`)
	vinAlphabet = regexp.MustCompile(`(?i)^[A-HJ-NPR-Z0-9]{17}$`)
)

// VehicleURL returns the first absolute /vehicle… URL in a search results
// page, skipping photo URLs. Returns "" when there is none.
func VehicleURL(text string) string {
	for _, m := range vehicleURLPattern.FindAllString(unescapeMarkup(text), -1) {
		if !HasImageExt(m) {
			return m
		}
	}
	return ""
}

// NearbyHref finds the first case-insensitive occurrence of identifier in
// text and searches a window of the given size centered on it for a link:
// an href containing /vehicle first, then any href. The href is returned as
// written (possibly relative). Returns "" if the identifier or a link is
// missing.
func NearbyHref(text, identifier string, window int) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || window <= 0 {
		return ""
	}
	loc := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(identifier)).FindStringIndex(text)
	if loc == nil {
		return ""
	}

	half := window / 2
	start := max(0, loc[0]-half)
	end := min(len(text), loc[0]+half)
	if end < loc[1] {
		end = loc[1]
	}
	snippet := text[start:end]

	if m := vehicleHrefPattern.FindStringSubmatch(snippet); m != nil {
		return unescapeMarkup(strings.TrimSpace(m[1]))
	}
	if m := anyHrefPattern.FindStringSubmatch(snippet); m != nil {
		return unescapeMarkup(strings.TrimSpace(m[1]))
	}
	return ""
}

// VINFromURL returns the first 17-character VIN embedded in a URL, bounded
// by non-alphanumeric characters, upper-cased. Slugs of the same length
// ("supercrew4x4truck", "certifiedused2024") are rejected by looksLikeVIN.
func VINFromURL(rawURL string) string {
	for _, run := range vinRun.FindAllString(rawURL, -1) {
		if vinAlphabet.MatchString(run) && looksLikeVIN(run) {
			return strings.ToUpper(run)
		}
	}
	return ""
}

// looksLikeVIN requires a letter, at least minVINDigits digits and a
// numeric serial tail (the last four positions).
func looksLikeVIN(run string) bool {
	if strings.IndexFunc(run, isLetter) < 0 {
		return false
	}
	digits := 0
	for _, r := range run {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < minVINDigits {
		return false
	}
	for _, r := range run[len(run)-4:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

const minVINDigits = 5

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// YMM is the year/make/model/trim parsed from a vehicle title.
type YMM struct {
	Year, Make, Model, Trim string
}

var ymmPattern = regexp.MustCompile(`(\d{4})\s+([A-Za-z0-9\-]+)\s+([A-Za-z0-9\-]+)\s*(.*)`)

// ParseYMM reads "2021 Ford F-150 XLT SuperCrew" style titles. Any prefix
// before the year ("Used", "Certified") is skipped. ok is false when the
// title has no year-make-model run.
func ParseYMM(title string) (YMM, bool) {
	m := ymmPattern.FindStringSubmatch(title)
	if m == nil {
		return YMM{}, false
	}
	return YMM{Year: m[1], Make: m[2], Model: m[3], Trim: strings.TrimSpace(m[4])}, true
}
