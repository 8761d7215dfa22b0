package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/linkvault/internal/errors"
	"github.com/allisson/linkvault/internal/httputil"
)

const (
	// staleLimiterAge is how long an idle limiter is kept.
	staleLimiterAge = time.Hour
	// pruneInterval is the minimum gap between two sweeps of the store.
	pruneInterval = 5 * time.Minute
)

// rateLimiterStore holds one token bucket per key (client IP or subject).
type rateLimiterStore struct {
	limiters  sync.Map // map[string]*rateLimiterEntry
	rps       float64
	burst     int
	lastPrune atomic.Int64 // unix nanoseconds
}

// rateLimiterEntry holds a rate limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

func newRateLimiterStore(rps float64, burst int) *rateLimiterStore {
	store := &rateLimiterStore{rps: rps, burst: burst}
	store.lastPrune.Store(time.Now().UnixNano())
	return store
}

// RateLimitMiddleware enforces a per-subject limit on authenticated routes.
// It must run after SessionMiddleware.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newRateLimiterStore(rps, burst)

	return func(c *gin.Context) {
		subject, ok := GetSubject(c.Request.Context())
		if !ok {
			logger.Error("rate limit middleware: no authenticated session in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !store.allow(c, subject) {
			logger.Debug("rate limit exceeded", slog.String("subject", subject))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestAccessRateLimitMiddleware enforces a per-IP limit on the unauthenticated
// sign-in link endpoint, which otherwise lets anyone trigger outbound mail.
//
// c.ClientIP() honours X-Forwarded-For and X-Real-IP only from trusted proxies.
func RequestAccessRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newRateLimiterStore(rps, burst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !store.allow(c, clientIP) {
			logger.Debug("request-access rate limit exceeded", slog.String("client_ip", clientIP))
			c.Abort()
			return
		}
		c.Next()
	}
}

// allow consumes a token for key, or writes a 429 with Retry-After and returns false.
func (s *rateLimiterStore) allow(c *gin.Context, key string) bool {
	limiter := s.getLimiter(key)
	if limiter.Allow() {
		return true
	}

	reservation := limiter.Reserve()
	retryAfter := int(reservation.Delay().Seconds())
	reservation.Cancel()
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.JSON(http.StatusTooManyRequests, httputil.ErrorResponse{
		Error:   "rate_limit_exceeded",
		Message: "Too many requests, retry after " + strconv.Itoa(retryAfter) + "s",
	})
	return false
}

// getLimiter retrieves or creates the limiter for key. Stale entries are swept
// inline at most once per pruneInterval.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.maybePrune(time.Now())

	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: time.Now(),
	}
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*rateLimiterEntry).limiter
}

// pruneStale drops limiters not accessed since threshold.
func (s *rateLimiterStore) pruneStale(threshold time.Time) {
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*rateLimiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			s.limiters.Delete(key)
		}
		return true
	})
}

// maybePrune sweeps the store when pruneInterval has elapsed since the last
// sweep. Only the caller that wins the swap does the work.
func (s *rateLimiterStore) maybePrune(now time.Time) {
	last := s.lastPrune.Load()
	if now.UnixNano()-last < int64(pruneInterval) {
		return
	}
	if !s.lastPrune.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	s.pruneStale(now.Add(-staleLimiterAge))
}
