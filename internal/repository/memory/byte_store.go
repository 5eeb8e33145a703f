package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// ByteStore backs the embedding cache when no Redis is configured.
type ByteStore struct {
	cache *cache.Cache
}

func NewByteStore(defaultTTL time.Duration) *ByteStore {
	return &ByteStore{cache: cache.New(defaultTTL, 10*time.Minute)}
}

func (s *ByteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if x, found := s.cache.Get(key); found {
		return x.([]byte), true, nil
	}
	return nil, false, nil
}

func (s *ByteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	s.cache.Set(key, value, ttl)
	return nil
}
