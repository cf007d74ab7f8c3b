package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimit returns a gin middleware enforcing a fixed window of maxRequests
// per client IP, counted in Redis so limits hold across instances.
func RateLimit(redisClient *redis.Client, keyPrefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	if redisClient == nil {
		panic("Redis client cannot be nil for RateLimit middleware")
	}
	checkLimits(maxRequests, window)
	if window < time.Millisecond {
		window = time.Millisecond
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		bucket := time.Now().UnixMilli() / window.Milliseconds()
		key := keyPrefix + "ratelimit:" + c.ClientIP() + ":" + strconv.FormatInt(bucket, 10)

		pipe := redisClient.TxPipeline()
		incrCmd := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			// Fail open.
			logrus.WithError(err).Error("RateLimit: Redis pipeline failed")
			c.Next()
			return
		}

		count := incrCmd.Val()
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		if count > int64(maxRequests) {
			c.Header("X-RateLimit-Remaining", "0")
			tooManyRequests(c)
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(maxRequests)-count, 10))
		c.Next()
	}
}

// LocalRateLimit is the single-instance counterpart of RateLimit, backed by a
// token bucket per client IP.
func LocalRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	checkLimits(maxRequests, window)
	limiters := newIPLimiters(rate.Every(window/time.Duration(maxRequests)), maxRequests, window)

	return func(c *gin.Context) {
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		if !limiters.get(c.ClientIP()).Allow() {
			c.Header("X-RateLimit-Remaining", "0")
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// maxTrackedIPs bounds the limiter map; idle entries are pruned past it.
const maxTrackedIPs = 10000

type ipEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

type ipLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	idle     time.Duration
	limiters map[string]*ipEntry
}

func newIPLimiters(limit rate.Limit, burst int, idle time.Duration) *ipLimiters {
	return &ipLimiters{limit: limit, burst: burst, idle: idle, limiters: make(map[string]*ipEntry)}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	e, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxTrackedIPs {
			l.prune(now)
		}
		e = &ipEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastAccess = now
	return e.limiter
}

// prune drops limiters idle long enough to have refilled. Caller holds mu.
func (l *ipLimiters) prune(now time.Time) {
	for ip, e := range l.limiters {
		if now.Sub(e.lastAccess) > l.idle {
			delete(l.limiters, ip)
		}
	}
}

func checkLimits(maxRequests int, window time.Duration) {
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}
}

func tooManyRequests(c *gin.Context) {
	logrus.WithField("client_ip", c.ClientIP()).Warn("RateLimit: request rejected")
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
}
