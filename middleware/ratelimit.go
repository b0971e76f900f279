package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/metrics"
	"golang.org/x/time/rate"
)

const (
	// DefaultClientTTL is how long an idle client keeps its bucket
	DefaultClientTTL = 10 * time.Minute

	cleanupInterval = time.Minute
)

// clientEntry holds a client's bucket and when it was last used
type clientEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// IPRateLimiter hands out one token bucket per client IP. Buckets idle for longer
// than the client TTL are dropped on a sweep that Allow runs at most once a minute.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientEntry
	limit     rate.Limit
	burst     int
	clientTTL time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter allows perMinute requests per client IP, with bursts of the same size.
// It returns nil, meaning unlimited, when perMinute is not positive.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &IPRateLimiter{
		clients:   make(map[string]*clientEntry),
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		clientTTL: DefaultClientTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether a request from ip may proceed now
func (l *IPRateLimiter) Allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= cleanupInterval {
		l.evictLocked(now, l.clientTTL)
		l.lastSweep = now
	}
	entry, ok := l.clients[ip]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.AllowN(now, 1)
}

// CleanupOldClients drops the buckets of clients not seen within maxAge
// and returns how many were removed.
func (l *IPRateLimiter) CleanupOldClients(maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.evictLocked(l.now(), maxAge)
}

// Len returns the number of tracked clients
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *IPRateLimiter) evictLocked(now time.Time, maxAge time.Duration) int {
	removed := 0
	for ip, entry := range l.clients {
		if now.Sub(entry.lastAccess) > maxAge {
			delete(l.clients, ip)
			removed++
		}
	}
	return removed
}

// RateLimit rejects requests over the per-IP limit with 429. A limiter of nil disables it.
func RateLimit(limiter *IPRateLimiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		m.RateLimited(c.FullPath())
		c.Header("Retry-After", "60")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"status":  "error",
			"message": "Too many requests, please try again later",
		})
	}
}
