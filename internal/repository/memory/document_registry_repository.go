package memory

import (
	"context"
	"sort"
	"time"

	"docchat-be/internal/repository/contract"
	"docchat-be/pkg/utils"

	"github.com/patrickmn/go-cache"
)

// DocumentRegistryRepository keeps one filename set per session. Sets are
// replaced, never mutated in place, so List reads without locking and
// writers only contend within a session.
type DocumentRegistryRepository struct {
	locks *utils.KeyedMutex
	cache *cache.Cache
}

var _ contract.DocumentRegistryRepository = (*DocumentRegistryRepository)(nil)

func NewDocumentRegistryRepository(ttl time.Duration) *DocumentRegistryRepository {
	return &DocumentRegistryRepository{
		locks: utils.NewKeyedMutex(),
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *DocumentRegistryRepository) Register(ctx context.Context, sessionID, filename string) error {
	unlock, err := r.locks.LockContext(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	next := map[string]struct{}{filename: {}}
	if x, found := r.cache.Get(sessionID); found {
		for name := range x.(map[string]struct{}) {
			next[name] = struct{}{}
		}
	}
	r.cache.Set(sessionID, next, cache.DefaultExpiration)
	return nil
}

func (r *DocumentRegistryRepository) List(ctx context.Context, sessionID string) ([]string, error) {
	out := []string{}
	if x, found := r.cache.Get(sessionID); found {
		for name := range x.(map[string]struct{}) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}
