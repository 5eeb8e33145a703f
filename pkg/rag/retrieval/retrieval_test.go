package retrieval

import (
	"context"
	"errors"
	"testing"

	"docchat-be/pkg/embedding"
	"docchat-be/pkg/vectorstore"
	"docchat-be/pkg/vectorstore/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRetriever(t *testing.T) *Retriever {
	t.Helper()
	store := vectorstore.NewStore(embedding.NewHashProvider(128), memory.NewIndex())
	err := store.AddChunks(context.Background(), []vectorstore.Chunk{
		{Content: "Revenue grew 20% in the third quarter.", Metadata: vectorstore.Metadata{SessionID: "A", Source: "a.pdf", Page: 1, TotalPages: 1}},
		{Content: "Revenue outlook for next year is stable.", Metadata: vectorstore.Metadata{SessionID: "A", Source: "b.pdf", Page: 1, TotalPages: 2}},
		{Content: "Revenue fell 5% for the competitor.", Metadata: vectorstore.Metadata{SessionID: "B", Source: "a.pdf", Page: 1, TotalPages: 1}},
	})
	require.NoError(t, err)
	return NewRetriever(store)
}

func TestRetrieve_SessionIsolation(t *testing.T) {
	r := seededRetriever(t)

	outA, err := r.Retrieve(context.Background(), "revenue", "A", nil)
	require.NoError(t, err)
	outB, err := r.Retrieve(context.Background(), "revenue", "B", nil)
	require.NoError(t, err)

	require.Len(t, outA.Chunks, 2)
	require.Len(t, outB.Chunks, 1)
	for _, c := range outA.Chunks {
		assert.Equal(t, "A", c.Metadata.SessionID)
	}
	assert.Equal(t, "B", outB.Chunks[0].Metadata.SessionID)
}

func TestRetrieve_FilenameFilter(t *testing.T) {
	r := seededRetriever(t)

	one, err := r.Retrieve(context.Background(), "revenue", "A", []string{"a.pdf"})
	require.NoError(t, err)
	require.Len(t, one.Chunks, 1)
	assert.Equal(t, "a.pdf", one.Chunks[0].Metadata.Source)

	both, err := r.Retrieve(context.Background(), "revenue", "A", []string{"a.pdf", "b.pdf"})
	require.NoError(t, err)
	assert.Len(t, both.Chunks, 2)
}

func TestRetrieve_NoMatchesIsEmptyNotNil(t *testing.T) {
	r := seededRetriever(t)

	out, err := r.Retrieve(context.Background(), "revenue", "C", nil)
	require.NoError(t, err)
	assert.NotNil(t, out.Chunks)
	assert.Empty(t, out.Chunks)
	assert.Equal(t, "", out.Serialized)
}

func TestRetrieve_RequiresSession(t *testing.T) {
	r := seededRetriever(t)
	_, err := r.Retrieve(context.Background(), "revenue", "", nil)
	assert.ErrorIs(t, err, vectorstore.ErrMissingSession)
}

type failingSearcher struct{}

func (failingSearcher) SimilaritySearch(context.Context, string, int, vectorstore.Filter) ([]vectorstore.Chunk, error) {
	return nil, errors.New("index down")
}

func TestRetrieve_SearchError(t *testing.T) {
	_, err := NewRetriever(failingSearcher{}).Retrieve(context.Background(), "q", "A", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index down")
}

func TestSerialize(t *testing.T) {
	out, err := Serialize([]vectorstore.Chunk{
		{Content: "first", Metadata: vectorstore.Metadata{SessionID: "S", Source: "a.pdf", Page: 1, TotalPages: 2}},
		{Content: "second", Metadata: vectorstore.Metadata{SessionID: "S", Source: "a.pdf", Page: 2, TotalPages: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"Source: {\"chat_id\":\"S\",\"page\":1,\"source\":\"a.pdf\",\"total_pages\":2}\nContent: first\n\n"+
			"Source: {\"chat_id\":\"S\",\"page\":2,\"source\":\"a.pdf\",\"total_pages\":2}\nContent: second",
		out)
}

func TestBuildFilter(t *testing.T) {
	assert.Equal(t, vectorstore.Filter{SessionID: "S"}, BuildFilter("S", nil))
	assert.Equal(t, vectorstore.Filter{SessionID: "S", Sources: []string{"a.pdf"}}, BuildFilter("S", []string{"a.pdf"}))
}

func TestTool(t *testing.T) {
	tool := Tool()
	assert.Equal(t, "retrieve", tool.Name)
	assert.Equal(t, []string{"query"}, tool.Parameters["required"])
	props := tool.Parameters["properties"].(map[string]any)
	assert.NotContains(t, props, "chat_id")
	assert.Contains(t, props, "filenames")
}
