// Package security provides the HTTP middleware in front of the API:
// CORS, API key authentication and per-caller rate limiting.
package security

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"courier/pkg/logger"
)

type SecConfig struct {
	AllowedOrigins []string
	RPS            float64
	Burst          int
	APIKeys        map[string]struct{}
	AllowUnauth    bool
}

// AuthenticateRequestMiddleware wraps a handler with request logging,
// CORS handling, API key checks and rate limiting. Health probes pass
// without a key so deployment checks keep working.
func AuthenticateRequestMiddleware(cfg SecConfig) func(http.Handler) http.Handler {
	limiters := &limiterPool{cfg: cfg}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.LogRequest(r)

			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(origin, cfg.AllowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,X-API-Key")
				w.Header().Set("Access-Control-Max-Age", "600")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if r.URL.Path == "/healthz" && r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key, hasKey := apiKey(r)
			if hasKey {
				if _, ok := cfg.APIKeys[key]; !ok {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					logger.Warn("request_unauthorized", "reason", "unknown_key", "path", r.URL.Path)
					return
				}
			} else if !cfg.AllowUnauth {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				logger.Warn("request_unauthorized", "reason", "no_key", "path", r.URL.Path, "remote", r.RemoteAddr)
				return
			} else {
				key = clientIP(r)
			}

			if !limiters.Allow(key) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				logger.Warn("rate_limited", "has_api_key", hasKey, "path", r.URL.Path)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// apiKey prefers Authorization: Bearer <key> and falls back to X-API-Key.
func apiKey(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	var key string
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		key = strings.TrimSpace(auth[7:])
	}
	if key == "" {
		key = r.Header.Get("X-API-Key")
	}
	return key, key != ""
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// limiterPool keeps one token bucket per API key or client IP.
type limiterPool struct {
	mu  sync.Mutex
	m   map[string]*rate.Limiter
	cfg SecConfig
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*rate.Limiter)
	}
	if l, ok := p.m[key]; ok {
		return l
	}
	rps := p.cfg.RPS
	if rps <= 0 {
		rps = 50
	}
	burst := p.cfg.Burst
	if burst <= 0 {
		burst = 100
	}
	l := rate.NewLimiter(rate.Limit(rps), burst)
	p.m[key] = l
	return l
}

func (p *limiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}
