package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const idleClientTTL = 10 * time.Minute

// RateLimiter keeps a token bucket per client key (the remote IP).
type RateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*rateClient
	lastPrune time.Time
	now       func() time.Time
	log       *logrus.Logger
}

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(perMinute, burst int, log *logrus.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		clients: make(map[string]*rateClient),
		now:     time.Now,
		log:     log,
	}
}

// Allow spends one token from key's bucket.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) > idleClientTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > idleClientTTL {
				delete(l.clients, k)
			}
		}
		l.lastPrune = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &rateClient{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Limit is an operation option that answers 429 once the caller's bucket is
// empty.
func (l *RateLimiter) Limit(api huma.API) func(*huma.Operation) {
	return func(o *huma.Operation) {
		o.Middlewares = append(o.Middlewares, func(ctx huma.Context, next func(huma.Context)) {
			key := clientKey(ctx.RemoteAddr())
			if l.Allow(key) {
				next(ctx)
				return
			}

			l.log.WithFields(logrus.Fields{
				"type":      "security",
				"client_ip": key,
				"method":    ctx.Method(),
				"path":      ctx.URL().Path,
			}).Warn("rate limit exceeded")
			ctx.SetHeader("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded, try again later")
		})
		o.Errors = append(o.Errors, http.StatusTooManyRequests)
	}
}

func (l *RateLimiter) retryAfterSeconds() int {
	if l.limit <= 0 {
		return 60
	}
	return int(math.Ceil(1 / float64(l.limit)))
}

func clientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
