package config

import (
	"sync"
)

// Cache is the process-wide store for precomputed engine artifacts (parsed
// snippet tables and similar). It is passed by reference into every
// configuration build - never looked up through package state. Entries live for
// the lifetime of the process and are dropped wholesale on settings change,
// partial eviction is never attempted.
//
// The hosting editor drives all actions from a single thread, the mutex only
// guards against hosts that do not honor that contract.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewCache creates an empty shared cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Get returns a previously stored artifact.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores an artifact under key, overwriting any previous value.
func (c *Cache) Put(key string, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Invalidate drops every cached artifact atomically. Called on settings change
// so the next action observes a clean slate.
func (c *Cache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
}

// Len reports the number of cached artifacts.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
