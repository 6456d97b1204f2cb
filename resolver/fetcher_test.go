package resolver

import (
	"context"
	"sync"
)

const (
	testOrigin = "https://dealer.example"
	testCDN    = "vehicle-images.dealerinspire.com"
)

// fakeSite serves canned bodies by exact URL and records every fetch.
type fakeSite struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func newFakeSite(pages map[string]string) *fakeSite {
	return &fakeSite{pages: pages}
}

func (f *fakeSite) FetchText(_ context.Context, rawURL string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rawURL)
	text, ok := f.pages[rawURL]
	return text, ok
}

func (f *fakeSite) count(rawURL string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == rawURL {
			n++
		}
	}
	return n
}

func (f *fakeSite) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type panicFetcher struct{}

func (panicFetcher) FetchText(context.Context, string) (string, bool) {
	panic("boom")
}
