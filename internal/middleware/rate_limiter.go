package middleware

import (
	"net/http"
	"sync"
	"time"

	"avyyan/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// LoginAttemptsPerMinute bounds login attempts per client IP.
const LoginAttemptsPerMinute = 20

// windowEntry counts requests of one IP in the current fixed window.
type windowEntry struct {
	count     int
	windowEnd time.Time
}

// windowLimiter is a fixed-window per-IP counter.
type windowLimiter struct {
	name    string
	limit   int
	window  time.Duration
	message string

	mu      sync.Mutex
	entries map[string]*windowEntry
}

var (
	limiters   []*windowLimiter
	limitersMu sync.Mutex
)

func newWindowLimiter(name string, limit int, window time.Duration, message string) *windowLimiter {
	l := &windowLimiter{
		name:    name,
		limit:   limit,
		window:  window,
		message: message,
		entries: make(map[string]*windowEntry),
	}
	limitersMu.Lock()
	limiters = append(limiters, l)
	limitersMu.Unlock()
	return l
}

// allow records one hit for ip and reports whether it is within the limit,
// plus the end of the current window.
func (l *windowLimiter) allow(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[ip]
	if !ok {
		e = &windowEntry{}
		l.entries[ip] = e
	}
	if now.After(e.windowEnd) {
		e.count = 0
		e.windowEnd = now.Add(l.window)
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *windowLimiter) purge(now time.Time) (purged, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	return purged, len(l.entries)
}

func (l *windowLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to LoginAttemptsPerMinute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newWindowLimiter("login", LoginAttemptsPerMinute, time.Minute,
		"Too many login attempts. Try again in a minute.").handler()
}

// RateLimiter returns a general-purpose per-IP limiter of limit requests per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newWindowLimiter("api", limit, window,
		"Too many requests. Try again shortly.").handler()
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically drops expired entries so IPs that never return do not pile up.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		limitersMu.Lock()
		active := append([]*windowLimiter(nil), limiters...)
		limitersMu.Unlock()

		for _, l := range active {
			purged, remaining := l.purge(now)
			if purged > 0 {
				log.Debug().
					Str("limiter", l.name).
					Int("purged", purged).
					Int("remaining", remaining).
					Msg("rate limiter entries purged")
			}
		}
	}
}
