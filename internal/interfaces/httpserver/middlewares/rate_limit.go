package middlewares

import (
	"net"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const bucketIdleEviction = 10 * time.Minute

// simple token bucket per key (principal or IP).
type rateBucket struct {
	tokens    float64
	lastTouch time.Time
}

// RateLimitMiddleware limits requests per key within a fixed window.
// Buckets idle longer than bucketIdleEviction are dropped during a periodic
// sweep so the map does not grow without bound under IP churn.
func RateLimitMiddleware(limitPerMinute float64) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		buckets   = make(map[string]*rateBucket)
		rate      = limitPerMinute / 60.0
		nextSweep = time.Now().Add(bucketIdleEviction)
	)

	return func(c *gin.Context) {
		key := rateKey(c)

		mu.Lock()
		now := time.Now()
		if now.After(nextSweep) {
			for k, b := range buckets {
				if now.Sub(b.lastTouch) > bucketIdleEviction {
					delete(buckets, k)
				}
			}
			nextSweep = now.Add(bucketIdleEviction)
		}

		bucket, ok := buckets[key]
		if !ok {
			bucket = &rateBucket{tokens: limitPerMinute, lastTouch: now}
			buckets[key] = bucket
		}

		// Refill tokens
		elapsed := now.Sub(bucket.lastTouch).Seconds()
		bucket.tokens = min(limitPerMinute, bucket.tokens+elapsed*rate)
		bucket.lastTouch = now

		if bucket.tokens < 1 {
			mu.Unlock()
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(429, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests",
			})
			return
		}
		bucket.tokens -= 1
		mu.Unlock()

		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	if principal, ok := PrincipalFromContext(c); ok && principal.UserID != "" {
		return "pid:" + principal.UserID
	}
	ip := clientIP(c.ClientIP())
	if ip != "" {
		return "ip:" + ip
	}
	return "anonymous"
}

// Normalize IPv6-mapped IPv4 etc.
func clientIP(raw string) string {
	if raw == "" {
		return ""
	}
	if ip := net.ParseIP(raw); ip != nil {
		return ip.String()
	}
	return raw
}
