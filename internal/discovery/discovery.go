// Package discovery resolves the endpoints of a federated instance from its
// base URL through the /.well-known/spacebar document.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/logger"
	"github.com/jankclient/directory/internal/utils"
)

const (
	wellKnownPath = "/.well-known/spacebar"
	domainsPath   = "policies/instance/domains"
	maxBodyBytes  = 1 << 20

	// DefaultTripAfter is the number of consecutive failures that opens a host's breaker.
	DefaultTripAfter = 3
)

// ErrHostUnavailable is returned while a host's circuit breaker is open.
var ErrHostUnavailable = errors.New("discovery temporarily disabled for host")

// Cache stores successful resolutions. Implementations return nil, nil on a miss.
type Cache interface {
	GetCachedDiscovery(ctx context.Context, baseURL string) (*domain.InstanceURLs, error)
	CacheDiscovery(ctx context.Context, baseURL string, urls *domain.InstanceURLs, ttl time.Duration) error
	InvalidateDiscovery(ctx context.Context, baseURL string) error
}

// Config tunes the resolver.
type Config struct {
	Timeout        time.Duration // per HTTP request
	CacheTTL       time.Duration // 0 disables caching
	BreakerTimeout time.Duration // how long an open breaker rejects a host
	TripAfter      uint32        // consecutive failures before the breaker opens
}

// wellKnown is the /.well-known/spacebar document.
type wellKnown struct {
	API       string `json:"api"`
	Gateway   string `json:"gateway"`
	CDN       string `json:"cdn"`
	WellKnown string `json:"wellknown"`
}

// domainsInfo is the /policies/instance/domains document.
type domainsInfo struct {
	CDN               string `json:"cdn"`
	Gateway           string `json:"gateway"`
	DefaultAPIVersion string `json:"defaultApiVersion"`
	APIEndpoint       string `json:"apiEndpoint"`
}

// Resolver resolves instance endpoints with a per-host circuit breaker and
// an optional cache in front.
type Resolver struct {
	http   *http.Client
	cache  Cache
	cfg    Config
	logger logger.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[*domain.InstanceURLs]
}

// New creates a resolver. cache may be nil.
func New(cfg Config, cache Cache, log logger.Logger) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 2 * time.Minute
	}
	if cfg.TripAfter == 0 {
		cfg.TripAfter = DefaultTripAfter
	}
	return &Resolver{
		http:     &http.Client{Timeout: cfg.Timeout},
		cache:    cache,
		cfg:      cfg,
		logger:   log,
		breakers: make(map[string]*gobreaker.CircuitBreaker[*domain.InstanceURLs]),
	}
}

// Resolve returns the endpoints announced by the instance at baseURL.
func (r *Resolver) Resolve(ctx context.Context, baseURL string) (*domain.InstanceURLs, error) {
	base, err := utils.NormalizeURL(baseURL)
	if err != nil {
		return nil, err
	}
	key := base.String()

	if urls := r.cached(ctx, key); urls != nil {
		return urls, nil
	}

	urls, err := r.breaker(base.Host).Execute(func() (*domain.InstanceURLs, error) {
		return r.fetch(ctx, base)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s", ErrHostUnavailable, base.Host)
		}
		return nil, err
	}

	if r.cache != nil && r.cfg.CacheTTL > 0 {
		if err := r.cache.CacheDiscovery(ctx, key, urls, r.cfg.CacheTTL); err != nil {
			r.logger.Debug("failed to cache discovery",
				logger.String("base_url", key),
				logger.Error(err))
		}
	}
	return urls, nil
}

// Invalidate drops the cached resolution of baseURL so the next Resolve asks
// the instance again. Cache errors are logged and ignored.
func (r *Resolver) Invalidate(ctx context.Context, baseURL string) {
	if r.cache == nil {
		return
	}
	base, err := utils.NormalizeURL(baseURL)
	if err != nil {
		return
	}
	if err := r.cache.InvalidateDiscovery(ctx, base.String()); err != nil {
		r.logger.Debug("failed to invalidate discovery",
			logger.String("base_url", base.String()),
			logger.Error(err))
	}
}

func (r *Resolver) cached(ctx context.Context, key string) *domain.InstanceURLs {
	if r.cache == nil || r.cfg.CacheTTL <= 0 {
		return nil
	}
	urls, err := r.cache.GetCachedDiscovery(ctx, key)
	if err != nil {
		r.logger.Debug("discovery cache read failed",
			logger.String("base_url", key),
			logger.Error(err))
		return nil
	}
	return urls
}

func (r *Resolver) breaker(host string) *gobreaker.CircuitBreaker[*domain.InstanceURLs] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[host]; ok {
		return cb
	}
	tripAfter := r.cfg.TripAfter
	cb := gobreaker.NewCircuitBreaker[*domain.InstanceURLs](gobreaker.Settings{
		Name:        "discovery:" + host,
		MaxRequests: 1,
		Timeout:     r.cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.Warn("discovery breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	r.breakers[host] = cb
	return cb
}

func (r *Resolver) fetch(ctx context.Context, base *url.URL) (*domain.InstanceURLs, error) {
	wk := *base
	wk.Path = wellKnownPath
	wk.RawPath = ""
	wk.RawQuery = ""

	var info wellKnown
	if err := r.getJSON(ctx, wk.String(), &info); err != nil {
		return nil, fmt.Errorf("failed to fetch well-known: %w", err)
	}

	api, err := utils.NormalizeURL(info.API)
	if err != nil {
		return nil, fmt.Errorf("well-known api: %w", err)
	}
	if !strings.Contains(api.Path, "api") {
		api.Path += "api/"
	}
	api.RawPath = ""
	api.Path += domainsPath

	var domains domainsInfo
	if err := r.getJSON(ctx, api.String(), &domains); err != nil {
		return nil, fmt.Errorf("failed to fetch instance domains: %w", err)
	}

	apiEndpoint, err := utils.NormalizeURL(domains.APIEndpoint)
	if err != nil {
		return nil, fmt.Errorf("domains apiEndpoint: %w", err)
	}

	urls := &domain.InstanceURLs{
		API:       apiEndpoint.String(),
		Gateway:   normalizeOrEmpty(domains.Gateway),
		CDN:       normalizeOrEmpty(domains.CDN),
		WellKnown: normalizeOrEmpty(wk.String()),
	}
	return urls, nil
}

func (r *Resolver) getJSON(ctx context.Context, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", target, err)
	}
	return nil
}

func normalizeOrEmpty(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := utils.NormalizeURL(raw)
	if err != nil {
		return raw
	}
	return u.String()
}
