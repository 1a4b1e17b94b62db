package session

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// memoryStore is a process-local Store built on ttlcache. Suitable for
// single-instance deployments and tests.
type memoryStore struct {
	cache *ttlcache.Cache[string, string]
}

// NewMemoryStore creates an in-memory session store with background eviction.
func NewMemoryStore() Store {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go cache.Start()

	return &memoryStore{cache: cache}
}

func (s *memoryStore) Set(_ context.Context, jti, userID string, ttl time.Duration) error {
	s.cache.Set(refreshPrefix+jti, userID, ttl)
	return nil
}

func (s *memoryStore) Get(_ context.Context, jti string) (string, bool, error) {
	item := s.cache.Get(refreshPrefix + jti)
	if item == nil || item.IsExpired() {
		return "", false, nil
	}
	return item.Value(), true, nil
}

func (s *memoryStore) Delete(_ context.Context, jti string) error {
	s.cache.Delete(refreshPrefix + jti)
	return nil
}

func (s *memoryStore) Ping(_ context.Context) error {
	return nil
}

func (s *memoryStore) Close() error {
	s.cache.Stop()
	return nil
}
