package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	pruneInterval     = 5 * time.Minute
	clientIdleTTL     = 15 * time.Minute
)

type clientBucket struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles the login relay per client host so credential guessing
// cannot flood the remote authority.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   rate.Limit
	burst   int
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows requestsPerSecond on average with bursts of burst per client.
// Idle clients are pruned until ctx ends or Stop is called.
func NewRateLimiter(ctx context.Context, requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go rl.pruneLoop(ctx)
	return rl
}

func (rl *RateLimiter) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-rl.done:
			return
		case <-ticker.C:
			rl.prune()
		}
	}
}

// prune drops idle clients, then the least recently seen half if still over the cap.
func (rl *RateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > clientIdleTTL {
			delete(rl.clients, key)
		}
	}
	if len(rl.clients) <= maxTrackedClients {
		return
	}

	keys := make([]string, 0, len(rl.clients))
	for k := range rl.clients {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return rl.clients[keys[i]].lastSeen.Before(rl.clients[keys[j]].lastSeen)
	})
	for _, k := range keys[:len(keys)-maxTrackedClients/2] {
		delete(rl.clients, k)
	}
}

// Len returns the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop ends the prune loop. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// wait takes a token for key and returns zero, or returns how long the client
// must wait before its next request is allowed.
func (rl *RateLimiter) wait(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[key]
	if !ok {
		c = &clientBucket{bucket: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now

	res := c.bucket.ReserveN(now, 1)
	if !res.OK() {
		return clientIdleTTL
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return delay
	}
	return 0
}

// Middleware answers 429 with the failure envelope once a client's bucket is empty.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			delay := rl.wait(key)
			if delay == 0 {
				next.ServeHTTP(w, r)
				return
			}

			slog.Warn("rate limit exceeded",
				slog.String("client", key),
				slog.String("path", r.URL.Path),
				slog.Duration("retry_after", delay))

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", retryAfterSeconds(delay))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "rate_limited",
			})
		})
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientKey strips the port so every connection from one host shares a bucket
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
