package cache

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/patrickacs/stocklio/internal/logger"
	"github.com/patrickacs/stocklio/internal/models"
)

// Database is the persistent cache backend over the cache_entries table.
// Store failures degrade to "no cache": a failed read is a miss, a failed
// write is skipped, and the error is logged, never propagated.
type Database struct {
	db *gorm.DB
}

// NewDatabase creates a cache backed by the given GORM connection.
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Get returns the value for key, treating expired or unreadable rows as
// absent. Expired rows are purged lazily.
func (d *Database) Get(key string) ([]byte, bool) {
	key = NormalizeKey(key)

	var entry models.CacheEntry
	if err := d.db.First(&entry, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Get().Warnw("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		if err := d.db.Delete(&models.CacheEntry{}, "key = ?", key).Error; err != nil {
			logger.Get().Warnw("cache purge failed", "key", key, "error", err)
		}
		return nil, false
	}
	return []byte(entry.Value), true
}

// Set upserts the value under key with a now+ttl expiry. Failures are logged
// and swallowed.
func (d *Database) Set(key string, value []byte, ttl time.Duration) {
	key = NormalizeKey(key)
	entry := models.CacheEntry{
		Key:       key,
		Value:     string(value),
		ExpiresAt: time.Now().Add(ttl),
	}

	err := d.db.Where("key = ?", key).
		Assign(map[string]interface{}{"value": entry.Value, "expires_at": entry.ExpiresAt}).
		FirstOrCreate(&models.CacheEntry{Key: key}).Error
	if err != nil {
		logger.Get().Warnw("cache write failed", "key", key, "error", err)
	}
}

// Delete removes a single key.
func (d *Database) Delete(key string) {
	key = NormalizeKey(key)
	if err := d.db.Delete(&models.CacheEntry{}, "key = ?", key).Error; err != nil {
		logger.Get().Warnw("cache delete failed", "key", key, "error", err)
	}
}

// DeletePrefix removes every key beginning with prefix and returns the count
// removed. Normalized keys may contain underscores, which LIKE treats as a
// wildcard, so the prefix is escaped.
func (d *Database) DeletePrefix(prefix string) int {
	prefix = NormalizeKey(prefix)
	escaped := strings.ReplaceAll(prefix, "_", `\_`)
	result := d.db.Where(`key LIKE ? ESCAPE '\'`, escaped+"%").Delete(&models.CacheEntry{})
	if result.Error != nil {
		logger.Get().Warnw("cache prefix delete failed", "prefix", prefix, "error", result.Error)
		return 0
	}
	return int(result.RowsAffected)
}

// Clear removes every entry.
func (d *Database) Clear() {
	if err := d.db.Where("1 = 1").Delete(&models.CacheEntry{}).Error; err != nil {
		logger.Get().Warnw("cache clear failed", "error", err)
	}
}

// Has reports whether key is present and not expired.
func (d *Database) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// DeleteExpired removes all rows whose expiry has passed and returns the
// count removed.
func (d *Database) DeleteExpired() int {
	result := d.db.Where("expires_at < ?", time.Now()).Delete(&models.CacheEntry{})
	if result.Error != nil {
		logger.Get().Warnw("cache sweep failed", "error", result.Error)
		return 0
	}
	return int(result.RowsAffected)
}
