package engine

import (
	"context"
	"fmt"
)

// RodFetchFunc is the callback that performs a browser fetch. It is injected
// from main.go to avoid a circular import (engine/ -> scraper/).
type RodFetchFunc func(ctx context.Context, req *FetchRequest) (*FetchResult, error)

// RodEngine fetches through a real (stealth-patched) browser. It is the
// escalation step for origins that refuse plain HTTP clients. The markup it
// returns is the served document; nothing on the page is interacted with.
type RodEngine struct {
	fetchFunc RodFetchFunc
}

// NewRodEngine creates a RodEngine backed by fetchFunc.
func NewRodEngine(fetchFunc RodFetchFunc) *RodEngine {
	return &RodEngine{fetchFunc: fetchFunc}
}

func (e *RodEngine) Name() string { return "rod-stealth" }

func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if e.fetchFunc == nil {
		return nil, fmt.Errorf("%s: fetchFunc not configured", e.Name())
	}

	result, err := e.fetchFunc(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name(), err)
	}

	result.EngineName = e.Name()
	return result, nil
}
