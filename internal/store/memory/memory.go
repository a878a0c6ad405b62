// Package memory provides an in-process store used when no Redis address
// is configured, and by tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/store"
)

type cached struct {
	urls    domain.InstanceURLs
	expires time.Time
}

// Store keeps values in memory. Data does not survive a restart.
type Store struct {
	mu        sync.RWMutex
	values    map[string][]byte
	discovery map[string]cached
	now       func() time.Time
}

var _ store.KV = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		values:    make(map[string][]byte),
		discovery: make(map[string]cached),
		now:       time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// CacheDiscovery stores urls for baseURL until ttl elapses. A ttl <= 0 never expires.
func (s *Store) CacheDiscovery(_ context.Context, baseURL string, urls *domain.InstanceURLs, ttl time.Duration) error {
	if urls == nil {
		return fmt.Errorf("nil discovery for %s", baseURL)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = s.now().Add(ttl)
	}
	s.discovery[baseURL] = cached{urls: *urls, expires: expires}
	return nil
}

// GetCachedDiscovery returns nil on a miss or once the entry expired.
func (s *Store) GetCachedDiscovery(_ context.Context, baseURL string) (*domain.InstanceURLs, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.discovery[baseURL]
	if !ok || (!c.expires.IsZero() && !s.now().Before(c.expires)) {
		return nil, nil
	}
	urls := c.urls
	return &urls, nil
}

// InvalidateDiscovery forgets the cached endpoints of baseURL.
func (s *Store) InvalidateDiscovery(_ context.Context, baseURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.discovery, baseURL)
	return nil
}
