// Package vectorstore holds session-scoped document chunks and answers
// filtered similarity searches over them.
package vectorstore

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrMissingSession rejects any search or write without a session scope.
	ErrMissingSession = errors.New("vectorstore: session id is required")
	ErrLengthMismatch = errors.New("vectorstore: chunks and vectors length mismatch")
)

// Metadata is the provenance attached to every chunk. JSON keys match the
// wire form of the ingestion path.
type Metadata struct {
	SessionID  string `json:"chat_id"`
	Page       int    `json:"page"`
	Source     string `json:"source"`
	TotalPages int    `json:"total_pages"`
}

// Chunk is an immutable unit of ingested text.
type Chunk struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Filter scopes a single search. SessionID is mandatory. Sources, when
// set, restricts results to those filenames (one entry = equality,
// more = set membership).
type Filter struct {
	SessionID string
	Sources   []string
}

func (f Filter) Validate() error {
	if f.SessionID == "" {
		return ErrMissingSession
	}
	return nil
}

// Matches evaluates the filter against chunk metadata.
func (f Filter) Matches(m Metadata) bool {
	if m.SessionID != f.SessionID {
		return false
	}
	if len(f.Sources) == 0 {
		return true
	}
	return slices.Contains(f.Sources, m.Source)
}

// Index is a vector index backend. Vectors are unit length.
type Index interface {
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, k int, filter Filter) ([]Chunk, error)
}
