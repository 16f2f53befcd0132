package models

import "time"

// CacheEntry is one row of the persistent cache backend: a normalized string
// key mapped to a serialized JSON value with an absolute expiry. A read past
// ExpiresAt behaves as a miss and the stale row is purged.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}
