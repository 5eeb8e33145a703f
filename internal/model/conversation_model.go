package model

import (
	"time"

	"docchat-be/pkg/llm"

	"gorm.io/datatypes"
)

// Conversation is one session's chat checkpoint. Version guards concurrent
// writers: updates only apply to the version they were loaded at.
type Conversation struct {
	SessionId string                            `gorm:"type:varchar(64);primaryKey"`
	Messages  datatypes.JSONType[[]llm.Message] `gorm:"type:jsonb;not null"`
	Version   int64                             `gorm:"not null"`
	UpdatedAt time.Time
}

func (Conversation) TableName() string {
	return "conversations"
}
