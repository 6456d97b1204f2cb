package engine

import (
	"sync"
	"time"
)

type memoryEntry struct {
	engine    string
	expiresAt time.Time
}

// DomainMemory remembers which engine last got through to each domain,
// so a site that blocks plain HTTP goes straight to the browser next time.
type DomainMemory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewDomainMemory creates a DomainMemory whose entries live for ttl.
// Expired entries are dropped on access.
func NewDomainMemory(ttl time.Duration) *DomainMemory {
	return &DomainMemory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the remembered engine for domain, or "" if none or expired.
func (m *DomainMemory) Get(domain string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[domain]
	if !ok {
		return ""
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, domain)
		return ""
	}
	return e.engine
}

// Set records engine as the one that worked for domain.
func (m *DomainMemory) Set(domain, engine string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	m.entries[domain] = memoryEntry{engine: engine, expiresAt: m.now().Add(m.ttl)}
}

// Delete forgets domain.
func (m *DomainMemory) Delete(domain string) {
	m.mu.Lock()
	delete(m.entries, domain)
	m.mu.Unlock()
}

// prune drops expired entries. Callers hold mu.
func (m *DomainMemory) prune() {
	now := m.now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}
