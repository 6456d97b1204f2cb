package resolver

import (
	"context"
	"strings"

	"github.com/use-agent/dealermedia/extract"
	"github.com/use-agent/dealermedia/models"
)

// Miner reads photos straight out of image sitemaps, without fetching the
// vehicle page.
type Miner struct {
	fetcher   TextFetcher
	imageHost string
}

// NewMiner creates a Miner accepting photos on imageHost.
func NewMiner(f TextFetcher, imageHost string) *Miner {
	return &Miner{fetcher: f, imageHost: imageHost}
}

// Mine scans the inventory sitemaps among sitemaps, in order, and returns
// the first <url> block that mentions identifier and lists at least one
// photo. ok is false when nothing matched.
func (m *Miner) Mine(ctx context.Context, t *Trace, identifier string, sitemaps []string) (block extract.ImageBlock, ok bool) {
	if strings.TrimSpace(identifier) == "" {
		t.add(models.MethodInventorySitemap, "", models.OutcomeSkipped, "no identifier")
		return extract.ImageBlock{}, false
	}

	maps := InventorySitemaps(sitemaps)
	if len(maps) == 0 {
		t.add(models.MethodInventorySitemap, "", models.OutcomeNoMatch, "no inventory sitemaps")
		return extract.ImageBlock{}, false
	}

	for _, sm := range maps {
		text, fetched := m.fetcher.FetchText(ctx, sm)
		if !fetched {
			t.add(models.MethodInventorySitemap, sm, models.OutcomeUnavailable, "")
			continue
		}
		block, ok = extract.MatchImageBlock(text, identifier, m.imageHost)
		if !ok {
			t.add(models.MethodInventorySitemap, sm, models.OutcomeNoMatch, "")
			continue
		}
		t.addImages(models.MethodInventorySitemap, sm, len(block.Images))
		return block, true
	}
	return extract.ImageBlock{}, false
}
