package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// Dispatcher tries engines one after another, cheapest first. It only
// escalates to the next engine when the failure looks like blocking, so a
// plain 404 costs exactly one request.
type Dispatcher struct {
	engines []Engine
	memory  *DomainMemory
}

// NewDispatcher creates a Dispatcher over engines in escalation order.
// memory may be nil.
func NewDispatcher(engines []Engine, memory *DomainMemory) *Dispatcher {
	return &Dispatcher{engines: engines, memory: memory}
}

// Engines returns the configured engine names in escalation order.
func (d *Dispatcher) Engines() []string {
	names := make([]string, len(d.engines))
	for i, e := range d.engines {
		names[i] = e.Name()
	}
	return names
}

// Dispatch fetches req with the remembered engine for its domain first,
// then escalates through the remaining engines.
func (d *Dispatcher) Dispatch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if len(d.engines) == 0 {
		return nil, fmt.Errorf("dispatcher: no engines configured")
	}
	domain := extractDomain(req.URL)

	var lastErr error
	for _, eng := range d.order(domain) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slog.Debug("engine starting", "engine", eng.Name(), "url", req.URL)
		result, err := eng.Fetch(ctx, req)
		if err == nil {
			if d.memory != nil {
				d.memory.Set(domain, eng.Name())
			}
			return result, nil
		}

		lastErr = err
		if !Blocked(err) {
			return nil, err
		}
		slog.Debug("engine blocked, escalating", "engine", eng.Name(), "url", req.URL, "error", err)
		if d.memory != nil && d.memory.Get(domain) == eng.Name() {
			d.memory.Delete(domain)
		}
	}
	return nil, lastErr
}

// order puts the remembered engine for domain in front, keeping the
// relative order of the rest.
func (d *Dispatcher) order(domain string) []Engine {
	if d.memory == nil {
		return d.engines
	}
	remembered := d.memory.Get(domain)
	if remembered == "" {
		return d.engines
	}

	ordered := make([]Engine, 0, len(d.engines))
	for _, e := range d.engines {
		if e.Name() == remembered {
			ordered = append(ordered, e)
		}
	}
	if len(ordered) == 0 {
		return d.engines
	}
	for _, e := range d.engines {
		if e.Name() != remembered {
			ordered = append(ordered, e)
		}
	}
	return ordered
}

// extractDomain parses the hostname from a URL string.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
