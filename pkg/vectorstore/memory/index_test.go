package memory

import (
	"context"
	"testing"

	"docchat-be/pkg/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(id, session, source string) vectorstore.Chunk {
	return vectorstore.Chunk{ID: id, Content: id, Metadata: vectorstore.Metadata{SessionID: session, Source: source, Page: 1, TotalPages: 1}}
}

func TestIndex_SearchRanksWithinFilter(t *testing.T) {
	ctx := context.Background()
	x := NewIndex()
	require.NoError(t, x.Upsert(ctx,
		[]vectorstore.Chunk{chunk("a1", "s1", "a.pdf"), chunk("a2", "s1", "b.pdf"), chunk("b1", "s2", "a.pdf")},
		[][]float32{{1, 0}, {0.6, 0.8}, {1, 0}},
	))

	got, err := x.Search(ctx, []float32{1, 0}, 5, vectorstore.Filter{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "a2", got[1].ID)

	got, err = x.Search(ctx, []float32{1, 0}, 1, vectorstore.Filter{SessionID: "s1"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestIndex_UpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	x := NewIndex()
	require.NoError(t, x.Upsert(ctx, []vectorstore.Chunk{chunk("a1", "s1", "a.pdf")}, [][]float32{{1}}))
	require.NoError(t, x.Upsert(ctx, []vectorstore.Chunk{chunk("a1", "s1", "b.pdf")}, [][]float32{{1}}))
	assert.Equal(t, 1, x.Len())

	got, _ := x.Search(ctx, []float32{1}, 5, vectorstore.Filter{SessionID: "s1"})
	assert.Equal(t, "b.pdf", got[0].Metadata.Source)
}

func TestIndex_Errors(t *testing.T) {
	ctx := context.Background()
	x := NewIndex()
	assert.ErrorIs(t, x.Upsert(ctx, []vectorstore.Chunk{chunk("a", "s", "f")}, nil), vectorstore.ErrLengthMismatch)

	_, err := x.Search(ctx, []float32{1}, 5, vectorstore.Filter{})
	assert.ErrorIs(t, err, vectorstore.ErrMissingSession)
}
