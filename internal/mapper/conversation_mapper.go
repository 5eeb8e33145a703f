package mapper

import (
	"docchat-be/internal/entity"
	"docchat-be/internal/model"
	"docchat-be/pkg/llm"

	"gorm.io/datatypes"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(row *model.Conversation) *entity.Conversation {
	messages := row.Messages.Data()
	if messages == nil {
		messages = []llm.Message{}
	}
	return &entity.Conversation{
		SessionID: row.SessionId,
		Messages:  messages,
		Version:   row.Version,
		UpdatedAt: row.UpdatedAt,
	}
}

func (m *ConversationMapper) ToModel(conv *entity.Conversation) *model.Conversation {
	return &model.Conversation{
		SessionId: conv.SessionID,
		Messages:  datatypes.NewJSONType(conv.Messages),
		Version:   conv.Version,
		UpdatedAt: conv.UpdatedAt,
	}
}
