package mw

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/jankclient/directory/internal/utils"
)

type RateLimitConfig struct {
	Requests   int           // requests allowed per client IP per window
	Window     time.Duration // sliding window length
	TrustProxy bool          // resolve IP from proxy headers when true
}

// RateLimit limits requests per client IP. The client IP is resolved the
// same way the CIDR filter resolves it.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Requests < 1 {
		cfg.Requests = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	retryAfter := strconv.Itoa(int(cfg.Window.Seconds()))

	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return utils.ClientIP(r, cfg.TrustProxy), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", retryAfter)
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"type":       "about:blank",
				"title":      http.StatusText(http.StatusTooManyRequests),
				"status":     http.StatusTooManyRequests,
				"detail":     "Rate limit exceeded. Please try again later.",
				"instance":   r.URL.Path,
				"request_id": middleware.GetReqID(r.Context()),
			})
		}),
	)
}
