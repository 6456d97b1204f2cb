package resolver

import "github.com/use-agent/dealermedia/models"

// Trace is the ordered record of every source probed during one
// resolution. It is returned for diagnosis and never read for control flow.
// The zero value is ready to use.
type Trace struct {
	strategy string
	entries  []models.TraceEntry
}

// Begin tags subsequent entries with the named strategy.
func (t *Trace) Begin(strategy string) {
	t.strategy = strategy
}

func (t *Trace) add(method, url, outcome, detail string) {
	t.entries = append(t.entries, models.TraceEntry{
		Strategy: t.strategy,
		Method:   method,
		URL:      url,
		Outcome:  outcome,
		Detail:   detail,
	})
}

func (t *Trace) addImages(method, url string, images int) {
	outcome := models.OutcomeNoImages
	if images > 0 {
		outcome = models.OutcomeImages
	}
	t.entries = append(t.entries, models.TraceEntry{
		Strategy: t.strategy,
		Method:   method,
		URL:      url,
		Outcome:  outcome,
		Images:   images,
	})
}

// Entries returns the recorded entries in probe order.
func (t *Trace) Entries() []models.TraceEntry {
	out := make([]models.TraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of recorded entries.
func (t *Trace) Len() int {
	return len(t.entries)
}
