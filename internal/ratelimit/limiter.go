package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Keyed hands out one token bucket per key. Buckets idle longer than
// idleTTL are discarded on the next sweep.
type Keyed struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewKeyed(limit rate.Limit, burst int, idleTTL time.Duration) *Keyed {
	return &Keyed{
		limit:   limit,
		burst:   burst,
		idleTTL: idleTTL,
		buckets: make(map[string]*bucket),
	}
}

func (k *Keyed) Allow(key string) bool {
	return k.allowAt(key, time.Now())
}

func (k *Keyed) allowAt(key string, now time.Time) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if now.Sub(k.lastSweep) > k.idleTTL {
		for key, b := range k.buckets {
			if now.Sub(b.lastSeen) > k.idleTTL {
				delete(k.buckets, key)
			}
		}
		k.lastSweep = now
	}

	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Middleware throttles by client IP.
func Middleware(k *Keyed) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !k.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
