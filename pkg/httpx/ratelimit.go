package httpx

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/slogx"
	"github.com/caarlos0/env/v11"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines one rate limiting profile.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window.
	RequestsPerWindow int `env:"REQUESTS"`
	// Window is the time window for rate limiting, e.g. "1m".
	Window time.Duration `env:"WINDOW"`
	// Burst allows temporary bursts above the steady rate.
	Burst int `env:"BURST"`
}

func (c RateLimitConfig) validate(name string) error {
	if c.RequestsPerWindow <= 0 || c.Window <= 0 || c.Burst <= 0 {
		return fmt.Errorf("ratelimit %s: requests, window and burst must be positive", name)
	}
	return nil
}

// Limits groups the profiles the router hands out per endpoint class.
//
//   - Strict: credential endpoints (register, login, join).
//   - Moderate: writes by an authenticated user.
//   - Lenient: reads by an authenticated user.
//   - Public: unauthenticated probes and key discovery.
type Limits struct {
	Strict   RateLimitConfig `envPrefix:"STRICT_"`
	Moderate RateLimitConfig `envPrefix:"MODERATE_"`
	Lenient  RateLimitConfig `envPrefix:"LENIENT_"`
	Public   RateLimitConfig `envPrefix:"PUBLIC_"`
}

// DefaultLimits returns the built-in profiles.
func DefaultLimits() Limits {
	return Limits{
		Strict:   RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5},
		Moderate: RateLimitConfig{RequestsPerWindow: 60, Window: time.Minute, Burst: 30},
		Lenient:  RateLimitConfig{RequestsPerWindow: 300, Window: time.Minute, Burst: 100},
		Public:   RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
	}
}

// LimitsFromEnv overlays RATELIMIT_{PROFILE}_{REQUESTS,WINDOW,BURST} on top
// of DefaultLimits. The e2e suite uses it to make limits trip quickly.
func LimitsFromEnv() (Limits, error) {
	l := DefaultLimits()
	if err := env.ParseWithOptions(&l, env.Options{Prefix: "RATELIMIT_"}); err != nil {
		return Limits{}, fmt.Errorf("parse rate limits: %w", err)
	}

	for name, c := range map[string]RateLimitConfig{
		"strict":   l.Strict,
		"moderate": l.Moderate,
		"lenient":  l.Lenient,
		"public":   l.Public,
	} {
		if err := c.validate(name); err != nil {
			return Limits{}, err
		}
	}
	return l, nil
}

// KeyExtractor picks the bucket a request is counted against.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address, honouring X-Forwarded-For
// and X-Real-IP for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// UserIDKeyExtractor returns the verified token subject, or "".
func UserIDKeyExtractor(r *http.Request) string {
	id, _ := UserIDFromContext(r.Context())
	return id
}

// CompositeKeyExtractor joins the non-empty keys of several extractors.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// idleSweepInterval bounds how often idle buckets are dropped.
const idleSweepInterval = 5 * time.Minute

// buckets holds one token bucket per key.
type buckets struct {
	mu        sync.Mutex
	byKey     map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

func newBuckets(cfg RateLimitConfig) *buckets {
	return &buckets{
		byKey:     make(map[string]*rate.Limiter),
		limit:     rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:     cfg.Burst,
		lastSweep: time.Now(),
	}
}

func (b *buckets) get(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now := time.Now(); now.Sub(b.lastSweep) >= idleSweepInterval {
		b.lastSweep = now
		// A full bucket has not been touched for a while.
		for k, l := range b.byKey {
			if l.Tokens() >= float64(b.burst) {
				delete(b.byKey, k)
			}
		}
	}

	l, ok := b.byKey[key]
	if !ok {
		l = rate.NewLimiter(b.limit, b.burst)
		b.byKey[key] = l
	}
	return l
}

// RateLimitMiddleware limits requests per key. Requests whose key cannot be
// determined are let through and logged.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	b := newBuckets(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := b.get(key)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			// Peek at when the next token lands without consuming it.
			res := limiter.Reserve()
			retryAfter := max(int(res.Delay().Seconds()), 1)
			res.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", config.Window.String())

			log.Warn("rate limit exceeded",
				"key", key,
				"endpoint", r.URL.Path,
				"retry_after", retryAfter,
			)

			WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "", "too many requests, try again later")
		})
	}
}

// RateLimitByIP limits by client IP only.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor)
}

// RateLimitByUser limits by authenticated user, combined with the IP. Must
// sit after AuthnMiddleware in the chain to see the user.
func RateLimitByUser(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":",
		UserIDKeyExtractor,
		IPKeyExtractor,
	))
}
