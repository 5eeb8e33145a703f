package redisstore

import (
	"context"
	"sort"
	"time"

	"docchat-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const registryKeyPrefix = "registry:"

// DocumentRegistryRepository keeps each session's filenames in a Redis set.
type DocumentRegistryRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ contract.DocumentRegistryRepository = (*DocumentRegistryRepository)(nil)

func NewDocumentRegistryRepository(client redis.UniversalClient, ttl time.Duration) *DocumentRegistryRepository {
	return &DocumentRegistryRepository{client: client, ttl: ttl}
}

func (r *DocumentRegistryRepository) Register(ctx context.Context, sessionID, filename string) error {
	key := registryKeyPrefix + sessionID
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, filename)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	return err
}

func (r *DocumentRegistryRepository) List(ctx context.Context, sessionID string) ([]string, error) {
	members, err := r.client.SMembers(ctx, registryKeyPrefix+sessionID).Result()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(members))
	out = append(out, members...)
	sort.Strings(out)
	return out, nil
}
