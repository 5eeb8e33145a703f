package mapper

import (
	"docchat-be/internal/model"
	"docchat-be/pkg/vectorstore"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToChunk(e *model.DocumentChunk) vectorstore.Chunk {
	meta := e.Metadata.Data()
	// Columns are authoritative; the JSON copy may predate a schema change.
	meta.SessionID = e.SessionId
	meta.Source = e.Source
	meta.Page = e.Page
	meta.TotalPages = e.TotalPages
	return vectorstore.Chunk{
		ID:       e.Id.String(),
		Content:  e.Content,
		Metadata: meta,
	}
}

func (m *DocumentChunkMapper) ToModel(c vectorstore.Chunk, vector []float32) (*model.DocumentChunk, error) {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return nil, err
	}
	return &model.DocumentChunk{
		Id:         id,
		SessionId:  c.Metadata.SessionID,
		Source:     c.Metadata.Source,
		Page:       c.Metadata.Page,
		TotalPages: c.Metadata.TotalPages,
		Content:    c.Content,
		Metadata:   datatypes.NewJSONType(c.Metadata),
		Embedding:  pgvector.NewVector(vector),
	}, nil
}

func (m *DocumentChunkMapper) ToChunks(rows []*model.DocumentChunk) []vectorstore.Chunk {
	chunks := make([]vectorstore.Chunk, len(rows))
	for i, r := range rows {
		chunks[i] = m.ToChunk(r)
	}
	return chunks
}
