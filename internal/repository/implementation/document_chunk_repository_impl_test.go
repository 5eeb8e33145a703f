package implementation

import (
	"context"
	"os"
	"testing"

	"docchat-be/pkg/database"
	"docchat-be/pkg/vectorstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentChunkRepository_SearchOrdersByDistance(t *testing.T) {
	tests := []struct {
		name   string
		filter vectorstore.Filter
		where  string
		order  string
	}{
		{"session only", vectorstore.Filter{SessionID: "S"}, "WHERE session_id = $1", "ORDER BY embedding <=> $2 LIMIT $3"},
		{"one source", vectorstore.Filter{SessionID: "S", Sources: []string{"a.pdf"}}, "WHERE session_id = $1 AND source = $2", "ORDER BY embedding <=> $3 LIMIT $4"},
		{"source set", vectorstore.Filter{SessionID: "S", Sources: []string{"a.pdf", "b.pdf"}}, "WHERE session_id = $1 AND source IN ($2,$3)", "ORDER BY embedding <=> $4 LIMIT $5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, statements := dryRunDB(t)
			repo := NewDocumentChunkRepository(db)

			got, err := repo.Search(context.Background(), []float32{1, 0}, 5, tt.filter)
			require.NoError(t, err)
			assert.Empty(t, got)

			require.Len(t, *statements, 1)
			sql := (*statements)[0]
			assert.Contains(t, sql, tt.where)
			assert.Contains(t, sql, tt.order)
		})
	}
}

func TestDocumentChunkRepository_Postgres(t *testing.T) {
	dsn := os.Getenv("PGVECTOR_TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: PGVECTOR_TEST_DSN not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	repo := NewDocumentChunkRepository(db)
	require.NoError(t, repo.Migrate(ctx))

	sessionA, sessionB := uuid.NewString(), uuid.NewString()
	chunks := []vectorstore.Chunk{
		{ID: uuid.NewString(), Content: "a", Metadata: vectorstore.Metadata{SessionID: sessionA, Source: "a.pdf", Page: 1, TotalPages: 1}},
		{ID: uuid.NewString(), Content: "b", Metadata: vectorstore.Metadata{SessionID: sessionA, Source: "b.pdf", Page: 1, TotalPages: 1}},
		{ID: uuid.NewString(), Content: "c", Metadata: vectorstore.Metadata{SessionID: sessionB, Source: "a.pdf", Page: 1, TotalPages: 1}},
	}
	require.NoError(t, repo.Upsert(ctx, chunks, [][]float32{{1, 0, 0}, {0, 1, 0}, {1, 0, 0}}))

	got, err := repo.Search(ctx, []float32{1, 0, 0}, 5, vectorstore.Filter{SessionID: sessionA})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Content)

	got, err = repo.Search(ctx, []float32{1, 0, 0}, 5, vectorstore.Filter{SessionID: sessionA, Sources: []string{"b.pdf"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b.pdf", got[0].Metadata.Source)

	got, err = repo.Search(ctx, []float32{1, 0, 0}, 5, vectorstore.Filter{SessionID: sessionB, Sources: []string{"a.pdf", "b.pdf"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, sessionB, got[0].Metadata.SessionID)
}
