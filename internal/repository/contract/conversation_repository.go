package contract

import (
	"context"
	"errors"

	"docchat-be/internal/entity"
)

// ErrVersionConflict is returned when a checkpoint was written by someone
// else since it was loaded.
var ErrVersionConflict = errors.New("conversation version conflict")

// ConversationRepository persists per-session checkpoints.
type ConversationRepository interface {
	// Load returns nil, nil when the session has no checkpoint yet.
	Load(ctx context.Context, sessionID string) (*entity.Conversation, error)
	// Save stores conv when conv.Version matches the stored version and
	// increments conv.Version on success.
	Save(ctx context.Context, conv *entity.Conversation) error
}
