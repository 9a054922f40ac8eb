package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"clinic-booking/config"
	"clinic-booking/pkg/response"

	"golang.org/x/time/rate"
)

const limiterStaleAfter = 10 * time.Minute

// RateLimitMiddleware applies a per-client-IP token bucket. Idle client
// entries are dropped by a background sweep so the map cannot grow without
// bound.
type RateLimitMiddleware struct {
	cfg config.RateLimitConfig

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stop     chan struct{}
	stopOnce sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimitMiddleware(cfg config.RateLimitConfig) *RateLimitMiddleware {
	m := &RateLimitMiddleware{
		cfg:      cfg,
		limiters: make(map[string]*clientLimiter),
		stop:     make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Stop terminates the background sweeper. Safe to call more than once.
func (m *RateLimitMiddleware) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.allow(clientIP(r)) {
			response.Error(w, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) allow(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.limiters[ip]
	if !ok {
		entry = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(m.cfg.RequestsPerSecond), m.cfg.Burst),
		}
		m.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter.Allow()
}

func (m *RateLimitMiddleware) sweepLoop() {
	ticker := time.NewTicker(limiterStaleAfter)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			for ip, entry := range m.limiters {
				if time.Since(entry.lastSeen) > limiterStaleAfter {
					delete(m.limiters, ip)
				}
			}
			m.mu.Unlock()
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
