package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter tracks one token bucket per client address.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit applies a per-client token bucket to every request. Stale
// clients are pruned so the map does not grow without bound.
func RateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)

	prune := func(now time.Time) {
		for addr, c := range clients {
			if now.Sub(c.lastSeen) > 10*time.Minute {
				delete(clients, addr)
			}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := r.RemoteAddr
			if host, _, err := net.SplitHostPort(addr); err == nil {
				addr = host
			}

			mu.Lock()
			c, ok := clients[addr]
			if !ok {
				c = &clientLimiter{limiter: rate.NewLimiter(limit, burst)}
				clients[addr] = c
				if len(clients) > 1024 {
					prune(time.Now())
				}
			}
			c.lastSeen = time.Now()
			allowed := c.limiter.Allow()
			mu.Unlock()

			if !allowed {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
