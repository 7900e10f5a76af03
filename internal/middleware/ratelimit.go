package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xxxsen/greenhabit/internal/pkg/errcode"
	"github.com/xxxsen/greenhabit/internal/pkg/response"
)

const (
	defaultSweepInterval = time.Minute
	defaultIdleTTL       = 10 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client ip and route.
type rateLimiter struct {
	mu            sync.Mutex
	limit         rate.Limit
	burst         int
	idleTTL       time.Duration
	entries       map[string]*limiterEntry
	sweepInterval time.Duration
	lastSweep     time.Time
	now           func() time.Time
}

// RateLimit allows rps requests per second with the given burst per client
// ip and route. A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return newRateLimiter(rps, burst).handle
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		limit:         rate.Limit(rps),
		burst:         burst,
		idleTTL:       defaultIdleTTL,
		entries:       make(map[string]*limiterEntry),
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
	}
}

func (l *rateLimiter) handle(c *gin.Context) {
	ip := c.ClientIP()
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	if l.allow(strings.Join([]string{ip, path}, "|")) {
		c.Next()
		return
	}
	logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
		zap.String("ip", ip),
		zap.String("path", path),
	)
	c.Header("Retry-After", "1")
	response.Error(c, http.StatusTooManyRequests, errcode.TooMany, http.StatusText(http.StatusTooManyRequests))
	c.Abort()
}

func (l *rateLimiter) allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) >= l.sweepInterval {
		l.cleanupExpiredLocked(now)
	}
	entry, ok := l.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// cleanupExpiredLocked drops buckets idle for longer than idleTTL; l.mu must be held.
func (l *rateLimiter) cleanupExpiredLocked(now time.Time) {
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.entries, key)
		}
	}
	l.lastSweep = now
}
