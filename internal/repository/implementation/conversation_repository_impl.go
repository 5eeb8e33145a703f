package implementation

import (
	"context"
	"errors"
	"time"

	"docchat-be/internal/entity"
	"docchat-be/internal/mapper"
	"docchat-be/internal/model"
	"docchat-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepositoryImpl keeps checkpoints in postgres. Saves are
// compare-and-swap on the version column.
type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

var _ contract.ConversationRepository = (*ConversationRepositoryImpl)(nil)

func NewConversationRepository(db *gorm.DB) *ConversationRepositoryImpl {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationRepositoryImpl) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.Conversation{})
}

func (r *ConversationRepositoryImpl) Load(ctx context.Context, sessionID string) (*entity.Conversation, error) {
	var m model.Conversation
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ConversationRepositoryImpl) Save(ctx context.Context, conv *entity.Conversation) error {
	next := r.mapper.ToModel(conv)
	next.Version = conv.Version + 1
	next.UpdatedAt = time.Now()

	db := r.db.WithContext(ctx)
	var res *gorm.DB
	if conv.Version == 0 {
		// A concurrent first save of the same session inserts nothing.
		res = db.Clauses(clause.OnConflict{DoNothing: true}).Create(next)
	} else {
		res = db.Model(&model.Conversation{}).
			Where("session_id = ? AND version = ?", conv.SessionID, conv.Version).
			Updates(map[string]interface{}{
				"messages":   next.Messages,
				"version":    next.Version,
				"updated_at": next.UpdatedAt,
			})
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrVersionConflict
	}

	conv.Version = next.Version
	conv.UpdatedAt = next.UpdatedAt
	return nil
}
