package implementation

import (
	"context"
	"fmt"

	"docchat-be/internal/mapper"
	"docchat-be/internal/model"
	"docchat-be/pkg/vectorstore"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentChunkRepositoryImpl is the pgvector backed vectorstore.Index.
type DocumentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

var _ vectorstore.Index = (*DocumentChunkRepositoryImpl)(nil)

func NewDocumentChunkRepository(db *gorm.DB) *DocumentChunkRepositoryImpl {
	return &DocumentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

// Migrate enables the vector extension and creates the chunk table.
func (r *DocumentChunkRepositoryImpl) Migrate(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	return db.AutoMigrate(&model.DocumentChunk{})
}

func (r *DocumentChunkRepositoryImpl) Upsert(ctx context.Context, chunks []vectorstore.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return vectorstore.ErrLengthMismatch
	}
	if len(chunks) == 0 {
		return nil
	}

	rows := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		m, err := r.mapper.ToModel(c, vectors[i])
		if err != nil {
			return fmt.Errorf("chunk %q: %w", c.ID, err)
		}
		rows[i] = m
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 100).Error
	})
}

func (r *DocumentChunkRepositoryImpl) Search(ctx context.Context, vector []float32, k int, filter vectorstore.Filter) ([]vectorstore.Chunk, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}

	query := r.db.WithContext(ctx).Where("session_id = ?", filter.SessionID)
	switch len(filter.Sources) {
	case 0:
	case 1:
		query = query.Where("source = ?", filter.Sources[0])
	default:
		query = query.Where("source IN ?", filter.Sources)
	}

	var rows []*model.DocumentChunk
	// DB.Order drops clause.Expr values, so the distance ordering goes in
	// as an explicit ORDER BY clause.
	err := query.
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding <=> ?",
			Vars: []interface{}{pgvector.NewVector(vector)},
		}}).
		Limit(k).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToChunks(rows), nil
}
