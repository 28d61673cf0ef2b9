package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter enforces a per-minute request budget for each client IP.
// Exempt paths bypass the limiter entirely; the trigger endpoints are
// guarded by their own shared secret and called by cron on a schedule the
// limiter must not interfere with.
type RateLimiter struct {
	limit  int
	exempt map[string]struct{}
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	done    chan struct{}
}

// bucket is one client's fixed window: requests counted since windowStart.
type bucket struct {
	windowStart time.Time
	count       int
}

// NewRateLimiter creates a limiter allowing limit requests per client IP per
// minute. Requests to the exempt paths are never counted or rejected.
func NewRateLimiter(limit int, exempt ...string) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		exempt:  make(map[string]struct{}, len(exempt)),
		now:     time.Now,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	for _, path := range exempt {
		rl.exempt[path] = struct{}{}
	}
	return rl
}

// Handler wraps next with the limit check. Rejections carry a JSON error
// body and a Retry-After hint.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := rl.exempt[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow counts one request against ip's current window and reports whether
// it fits the budget. A window older than a minute is reset.
func (rl *RateLimiter) allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok || now.Sub(b.windowStart) >= time.Minute {
		rl.buckets[ip] = &bucket{windowStart: now, count: 1}
		return true
	}

	if b.count >= rl.limit {
		return false
	}
	b.count++
	return true
}

// StartJanitor sweeps idle buckets every interval until Stop is called.
func (rl *RateLimiter) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.sweep()
			case <-rl.done:
				return
			}
		}
	}()
}

// Stop terminates the janitor goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

func (rl *RateLimiter) sweep() {
	cutoff := rl.now().Add(-5 * time.Minute)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if b.windowStart.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}

// clientIP resolves the originating client address, honoring proxy headers
// before falling back to the connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
