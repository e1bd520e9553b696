package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter tracks a per-client rate limiter and when it was last seen.
type clientLimiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter is a per-client token bucket. Requests over the limit get 429.
type rateLimiter struct {
	rps     float64
	burst   int
	clients sync.Map // client IP -> *clientLimiter
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{rps: rps, burst: burst}
}

func (l *rateLimiter) get(ip string) *rate.Limiter {
	v, _ := l.clients.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)})
	cl := v.(*clientLimiter)
	cl.mu.Lock()
	cl.lastSeen = time.Now()
	cl.mu.Unlock()
	return cl.limiter
}

// sweep forgets clients idle for longer than idle.
func (l *rateLimiter) sweep(idle time.Duration) {
	l.clients.Range(func(key, value any) bool {
		cl := value.(*clientLimiter)
		cl.mu.Lock()
		stale := time.Since(cl.lastSeen) > idle
		cl.mu.Unlock()
		if stale {
			l.clients.Delete(key)
		}
		return true
	})
}

func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := l.get(clientIP(r))

		reservation := limiter.Reserve()
		if !reservation.OK() {
			writeTooManyRequests(w, 0)
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			writeTooManyRequests(w, int(delay.Seconds())+1)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		next.ServeHTTP(w, r)
	})
}

// clientIP is the remote address without its port. Forwarding headers are ignored
// so clients cannot pick their own bucket.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeTooManyRequests(w http.ResponseWriter, retryAfterSecs int) {
	if retryAfterSecs > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))
	}
	writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "rate limit exceeded", "code": "rate_limited"})
}
