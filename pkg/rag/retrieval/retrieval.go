// Package retrieval implements the retrieve tool: a session scoped
// similarity search whose results are serialized for the model and kept
// raw for citations.
package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"docchat-be/pkg/llm"
	"docchat-be/pkg/vectorstore"
)

const (
	ToolName = "retrieve"
	// TopK is the fixed number of chunks returned per search.
	TopK = 5
)

// Searcher is the read side of vectorstore.Store.
type Searcher interface {
	SimilaritySearch(ctx context.Context, query string, k int, filter vectorstore.Filter) ([]vectorstore.Chunk, error)
}

// Outcome is what one retrieval produced: the text handed to the model
// and the chunks that back it.
type Outcome struct {
	Serialized string
	Chunks     []vectorstore.Chunk
}

// Tool returns the retrieve tool declaration offered to the model. The
// session id is never part of the schema; it is injected by the caller.
func Tool() llm.Tool {
	return llm.Tool{
		Name:        ToolName,
		Description: "Retrieve information related to a query and chat_id. You have access to documents related to the question.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query for the documents",
				},
				"filenames": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Optional list of document filenames to restrict the search to",
				},
			},
			"required": []string{"query"},
		},
	}
}

// BuildFilter scopes a search to sessionID and, when filenames is non
// empty, to those sources.
func BuildFilter(sessionID string, filenames []string) vectorstore.Filter {
	f := vectorstore.Filter{SessionID: sessionID}
	if len(filenames) > 0 {
		f.Sources = append([]string(nil), filenames...)
	}
	return f
}

// Serialize renders chunks as "Source: {metadata}\nContent: {content}"
// blocks separated by blank lines.
func Serialize(chunks []vectorstore.Chunk) (string, error) {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return "", fmt.Errorf("marshal chunk metadata: %w", err)
		}
		parts = append(parts, fmt.Sprintf("Source: %s\nContent: %s", meta, c.Content))
	}
	return strings.Join(parts, "\n\n"), nil
}

// Retriever runs the retrieve tool against a Searcher. It holds no per
// call state and is safe for concurrent use.
type Retriever struct {
	searcher Searcher
	k        int
}

func NewRetriever(searcher Searcher) *Retriever {
	return &Retriever{searcher: searcher, k: TopK}
}

func (r *Retriever) Retrieve(ctx context.Context, query, sessionID string, filenames []string) (*Outcome, error) {
	filter := BuildFilter(sessionID, filenames)
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	chunks, err := r.searcher.SimilaritySearch(ctx, query, r.k, filter)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	serialized, err := Serialize(chunks)
	if err != nil {
		return nil, err
	}
	if chunks == nil {
		chunks = []vectorstore.Chunk{}
	}
	return &Outcome{Serialized: serialized, Chunks: chunks}, nil
}
