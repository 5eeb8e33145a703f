package memory

import (
	"context"
	"time"

	"docchat-be/internal/entity"
	"docchat-be/internal/repository/contract"
	"docchat-be/pkg/utils"

	"github.com/patrickmn/go-cache"
)

type ConversationRepository struct {
	cache *cache.Cache
	locks *utils.KeyedMutex
}

var _ contract.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository keeps checkpoints for ttl after their last
// write, purging expired items every 10 minutes.
func NewConversationRepository(ttl time.Duration) *ConversationRepository {
	return &ConversationRepository{
		cache: cache.New(ttl, 10*time.Minute),
		locks: utils.NewKeyedMutex(),
	}
}

func (r *ConversationRepository) Load(ctx context.Context, sessionID string) (*entity.Conversation, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.Conversation).Clone(), nil
	}
	return nil, nil
}

func (r *ConversationRepository) Save(ctx context.Context, conv *entity.Conversation) error {
	unlock := r.locks.Lock(conv.SessionID)
	defer unlock()

	var stored int64
	if x, found := r.cache.Get(conv.SessionID); found {
		stored = x.(*entity.Conversation).Version
	}
	if stored != conv.Version {
		return contract.ErrVersionConflict
	}

	conv.Version++
	conv.UpdatedAt = time.Now()
	r.cache.Set(conv.SessionID, conv.Clone(), cache.DefaultExpiration)
	return nil
}
