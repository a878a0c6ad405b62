package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jankclient/directory/internal/domain"
)

// CacheDiscovery stores the resolved endpoints of baseURL
func (s *Store) CacheDiscovery(ctx context.Context, baseURL string, urls *domain.InstanceURLs, ttl time.Duration) error {
	data, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("failed to marshal discovery: %w", err)
	}
	if err := s.client.Set(ctx, DiscoveryKey(baseURL), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache discovery: %w", err)
	}
	return nil
}

// GetCachedDiscovery retrieves cached endpoints, nil on a cache miss
func (s *Store) GetCachedDiscovery(ctx context.Context, baseURL string) (*domain.InstanceURLs, error) {
	data, err := s.client.Get(ctx, DiscoveryKey(baseURL)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached discovery: %w", err)
	}

	var urls domain.InstanceURLs
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached discovery: %w", err)
	}
	return &urls, nil
}

// InvalidateDiscovery removes a cached discovery
func (s *Store) InvalidateDiscovery(ctx context.Context, baseURL string) error {
	if err := s.client.Del(ctx, DiscoveryKey(baseURL)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate discovery: %w", err)
	}
	return nil
}
