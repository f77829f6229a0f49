// Package cache provides caching implementations for rowguard check results.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xraph/rowguard"
)

// Compile-time interface check.
var _ rowguard.Cache = (*Memory)(nil)

// Memory is an in-memory cache with TTL-based expiration.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	maxSize int
}

type entry struct {
	result    *rowguard.CheckResult
	resource  string
	actorKey  string
	expiresAt time.Time
}

// MemoryOption configures the memory cache.
type MemoryOption func(*Memory)

// WithTTL sets the cache entry time-to-live.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) { m.ttl = ttl }
}

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) MemoryOption {
	return func(m *Memory) { m.maxSize = n }
}

// NewMemory creates a new in-memory cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]*entry),
		ttl:     5 * time.Minute,
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a cached check result.
func (m *Memory) Get(_ context.Context, req *rowguard.CheckRequest) (*rowguard.CheckResult, bool) {
	key := cacheKey(req)
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.result, true
}

// Set stores a check result in the cache.
func (m *Memory) Set(_ context.Context, req *rowguard.CheckRequest, result *rowguard.CheckResult) {
	key := cacheKey(req)
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict if at capacity.
	if len(m.entries) >= m.maxSize {
		m.evictExpired()
		if len(m.entries) >= m.maxSize {
			// Evict one arbitrary entry.
			m.evictOne()
		}
	}

	m.entries[key] = &entry{
		result:    result,
		resource:  req.Resource,
		actorKey:  actorKey(req.Actor),
		expiresAt: time.Now().Add(m.ttl),
	}
}

// InvalidateResource removes all cached results for a resource type.
func (m *Memory) InvalidateResource(_ context.Context, resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if e.resource == resource {
			delete(m.entries, k)
		}
	}
}

// InvalidateActor removes all cached results for a specific actor.
func (m *Memory) InvalidateActor(_ context.Context, actor rowguard.Actor) {
	key := actorKey(actor)
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if e.actorKey == key {
			delete(m.entries, k)
		}
	}
}

// Len returns the number of live entries, expired included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func cacheKey(req *rowguard.CheckRequest) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		req.Resource,
		actorKey(req.Actor),
		req.Operation,
		req.RowID(),
	)
}

func actorKey(actor rowguard.Actor) string {
	return string(actor.Role) + ":" + actor.ID
}

// evictExpired removes all expired entries. Must hold write lock.
func (m *Memory) evictExpired() {
	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// evictOne removes one arbitrary entry. Must hold write lock.
func (m *Memory) evictOne() {
	for k := range m.entries {
		delete(m.entries, k)
		return
	}
}
