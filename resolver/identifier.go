package resolver

import (
	"strings"

	"github.com/use-agent/dealermedia/extract"
	"github.com/use-agent/dealermedia/models"
)

// Identifier derives the single matching key of a request. When vinLast8 is
// absent and the direct URL embeds a 17-character VIN, its last eight
// characters are used. Otherwise vinLast8 wins over stock. The result is ""
// only when neither field is set and the URL carries no VIN.
func Identifier(req models.LocatorRequest) string {
	if v := strings.TrimSpace(req.VinLast8); v != "" {
		return v
	}
	if vin := extract.VINFromURL(req.DirectURL); vin != "" {
		return vin[len(vin)-8:]
	}
	return strings.TrimSpace(req.Stock)
}

// urlVIN returns the full VIN embedded in the direct URL, if any.
func urlVIN(req models.LocatorRequest) string {
	return extract.VINFromURL(req.DirectURL)
}
