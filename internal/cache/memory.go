package cache

import (
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is the in-process cache backend: a map guarded by an RWMutex with
// lazy eviction on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get returns the value for key, treating expired entries as absent and
// removing them.
func (m *Memory) Get(key string) ([]byte, bool) {
	key = NormalizeKey(key)

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
	return e.value, true
}

// Set stores value under key with a now+ttl expiry.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	key = NormalizeKey(key)
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
}

// Delete removes a single key.
func (m *Memory) Delete(key string) {
	key = NormalizeKey(key)
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// DeletePrefix removes every key beginning with prefix and returns the count
// removed.
func (m *Memory) DeletePrefix(prefix string) int {
	prefix = NormalizeKey(prefix)
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Clear removes every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
}

// Has reports whether key is present and not expired.
func (m *Memory) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// DeleteExpired removes all expired entries and returns the count removed.
func (m *Memory) DeleteExpired() int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}
