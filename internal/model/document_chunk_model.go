package model

import (
	"time"

	"docchat-be/pkg/vectorstore"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// DocumentChunk is one embedded chunk row. SessionId and Source are
// plain indexed columns so every search can filter on them.
type DocumentChunk struct {
	Id         uuid.UUID                                `gorm:"type:uuid;primaryKey"`
	SessionId  string                                   `gorm:"type:varchar(64);not null;index:idx_chunk_session_source,priority:1"`
	Source     string                                   `gorm:"type:varchar(255);not null;index:idx_chunk_session_source,priority:2"`
	Page       int                                      `gorm:"not null"`
	TotalPages int                                      `gorm:"not null"`
	Content    string                                   `gorm:"type:text;not null"`
	Metadata   datatypes.JSONType[vectorstore.Metadata] `gorm:"type:jsonb"`
	Embedding  pgvector.Vector                          `gorm:"type:vector"`
	CreatedAt  time.Time                                `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
