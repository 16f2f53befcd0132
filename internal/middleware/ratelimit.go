package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/patrickacs/stocklio/internal/errors"
)

// rateWindow tracks one client's request count inside the current window.
type rateWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window per-client-IP request counter. Once a
// client exhausts the window's quota it is rejected with 429 until the
// window resets.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*rateWindow
	limit     int
	window    time.Duration
	lastSweep time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*rateWindow),
		limit:     limit,
		window:    window,
		lastSweep: time.Now(),
	}
}

// allow reports whether the client may proceed, counting this request.
func (rl *RateLimiter) allow(clientIP string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Entries for clients that never come back would accumulate forever, so
	// expired windows are swept at most once per window length.
	if now.Sub(rl.lastSweep) >= rl.window {
		for ip, w := range rl.clients {
			if now.After(w.resetAt) {
				delete(rl.clients, ip)
			}
		}
		rl.lastSweep = now
	}

	w, ok := rl.clients[clientIP]
	if !ok || now.After(w.resetAt) {
		rl.clients[clientIP] = &rateWindow{count: 1, resetAt: now.Add(rl.window)}
		return true
	}
	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// Middleware returns the Gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.JSON(apperrors.ErrRateLimited.StatusCode, gin.H{
				"success": false,
				"error":   apperrors.ErrRateLimited.Code,
				"message": apperrors.ErrRateLimited.Message,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
