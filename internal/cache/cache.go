// Package cache provides a key-value store with per-entry expiry behind two
// interchangeable backends: an in-process map and a persistent table. The
// backend is a static process-wide choice made at startup.
package cache

import (
	"encoding/json"
	"strings"
	"time"
)

// Store is the capability interface shared by both backends. Keys are
// normalized on every operation so logically-equal keys always collide.
type Store interface {
	// Get returns the raw value for key, or false if the key is absent or
	// expired. Expired rows are purged lazily on read.
	Get(key string) ([]byte, bool)
	// Set stores value with a now+ttl expiry, overwriting any existing entry.
	Set(key string, value []byte, ttl time.Duration)
	// Delete removes a single key.
	Delete(key string)
	// DeletePrefix removes every key beginning with prefix and returns the
	// number removed. Used to invalidate a family of parameterized keys.
	DeletePrefix(prefix string) int
	// Clear removes every entry.
	Clear()
	// Has reports whether key is present and not expired.
	Has(key string) bool
	// DeleteExpired removes rows whose expiry has passed and returns the
	// number removed. Called by the background sweeper.
	DeleteExpired() int
}

// NormalizeKey lower-cases the key and replaces any character outside
// [a-z0-9:_-] with an underscore. Normalization is idempotent.
func NormalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ':', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// GetJSON decodes the cached value for key into T. A decode failure is
// treated as a miss.
func GetJSON[T any](s Store, key string) (T, bool) {
	var out T
	raw, ok := s.Get(key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		s.Delete(key)
		return out, false
	}
	return out, true
}

// SetJSON encodes value as JSON and stores it under key. Values that cannot
// be encoded are silently skipped; the cache is best-effort.
func SetJSON[T any](s Store, key string, value T, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.Set(key, raw, ttl)
}

// GetOrSet returns the cached value for key when present, otherwise invokes
// produce, stores its result, and returns it. The producer is authoritative
// on a miss. Concurrent misses may each invoke the producer redundantly;
// there is deliberately no single-flight deduplication.
func GetOrSet[T any](s Store, key string, ttl time.Duration, produce func() (T, error)) (T, error) {
	if cached, ok := GetJSON[T](s, key); ok {
		return cached, nil
	}
	value, err := produce()
	if err != nil {
		return value, err
	}
	SetJSON(s, key, value, ttl)
	return value, nil
}
