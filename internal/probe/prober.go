// Package probe checks whether a federated instance answers on its API.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/logger"
	"github.com/jankclient/directory/internal/utils"
)

const pingPath = "ping"

// ErrNoAPI is returned when an instance has neither an API URL nor a base URL.
var ErrNoAPI = errors.New("instance has no api or base url")

// Resolver discovers the endpoints of an instance from its base URL.
type Resolver interface {
	Resolve(ctx context.Context, baseURL string) (*domain.InstanceURLs, error)
	Invalidate(ctx context.Context, baseURL string)
}

// Prober issues one HEAD request against <api>/ping per call. It never
// retries: the scheduler's re-check cadence takes care of that.
type Prober struct {
	client   *http.Client
	resolver Resolver
	logger   logger.Logger
}

// New creates a prober whose requests are bounded by timeout.
func New(timeout time.Duration, resolver Resolver, log logger.Logger) *Prober {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Prober{
		client:   &http.Client{Timeout: timeout},
		resolver: resolver,
		logger:   log,
	}
}

// Probe reports whether the instance is reachable. Any failure, including an
// API URL that cannot be resolved, reports false.
func (p *Prober) Probe(ctx context.Context, instance domain.Instance) bool {
	pingURL, err := p.PingURL(ctx, instance)
	if err != nil {
		p.logger.Warn("cannot resolve instance api",
			logger.String("instance", instance.Name),
			logger.Error(err))
		return false
	}

	if err := p.head(ctx, pingURL.String()); err != nil {
		p.logger.Debug("instance probe failed",
			logger.String("instance", instance.Name),
			logger.String("url", pingURL.String()),
			logger.Error(err))
		// discovered endpoints may have moved; ask again next time
		if instance.ExplicitAPI() == "" && p.resolver != nil {
			p.resolver.Invalidate(ctx, instance.URL)
		}
		return false
	}
	return true
}

// PingURL builds the probe target of instance, discovering the API when the
// instance only announces a base URL.
func (p *Prober) PingURL(ctx context.Context, instance domain.Instance) (*url.URL, error) {
	api := instance.ExplicitAPI()
	if api == "" {
		if instance.URL == "" {
			return nil, ErrNoAPI
		}
		if p.resolver == nil {
			return nil, fmt.Errorf("no resolver for %s", instance.URL)
		}
		urls, err := p.resolver.Resolve(ctx, instance.URL)
		if err != nil {
			return nil, fmt.Errorf("discovery failed: %w", err)
		}
		if urls == nil || urls.API == "" {
			return nil, ErrNoAPI
		}
		api = urls.API
	}

	u, err := utils.NormalizeURL(api)
	if err != nil {
		return nil, err
	}
	u.RawPath = ""
	u.Path += pingPath
	return u, nil
}

func (p *Prober) head(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
