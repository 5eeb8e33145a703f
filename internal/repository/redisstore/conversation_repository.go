package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"docchat-be/internal/entity"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const conversationKeyPrefix = "conversation:"

// ConversationRepository stores checkpoints as JSON with optimistic
// locking through WATCH/MULTI/EXEC.
type ConversationRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger logger.ILogger
}

var _ contract.ConversationRepository = (*ConversationRepository)(nil)

func NewConversationRepository(client redis.UniversalClient, ttl time.Duration, log logger.ILogger) *ConversationRepository {
	return &ConversationRepository{client: client, ttl: ttl, logger: log}
}

// Load refreshes the TTL on every read.
func (r *ConversationRepository) Load(ctx context.Context, sessionID string) (*entity.Conversation, error) {
	key := conversationKeyPrefix + sessionID
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var conv entity.Conversation
	if err := json.Unmarshal(val, &conv); err != nil {
		return nil, err
	}

	if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
		r.logger.Warn("CONVERSATION", "checkpoint ttl refresh failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	return &conv, nil
}

func (r *ConversationRepository) Save(ctx context.Context, conv *entity.Conversation) error {
	key := conversationKeyPrefix + conv.SessionID

	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		var stored int64
		val, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			var current entity.Conversation
			if err := json.Unmarshal(val, &current); err != nil {
				return err
			}
			stored = current.Version
		}
		if stored != conv.Version {
			return contract.ErrVersionConflict
		}

		next := *conv
		next.Version++
		next.UpdatedAt = time.Now()
		payload, err := json.Marshal(&next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		if errors.Is(err, redis.TxFailedErr) {
			return contract.ErrVersionConflict
		}
		if err != nil {
			return err
		}
		conv.Version = next.Version
		conv.UpdatedAt = next.UpdatedAt
		return nil
	}, key)
}
