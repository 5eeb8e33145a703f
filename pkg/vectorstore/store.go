package vectorstore

import (
	"context"
	"fmt"

	"docchat-be/pkg/embedding"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Store binds an embedder to an index: callers add and search by text.
type Store struct {
	embedder    embedding.EmbeddingProvider
	index       Index
	concurrency int
}

type StoreOption func(*Store)

// WithConcurrency bounds parallel embedding calls during AddChunks.
func WithConcurrency(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewStore(embedder embedding.EmbeddingProvider, index Index, opts ...StoreOption) *Store {
	s := &Store{embedder: embedder, index: index, concurrency: 4}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddChunks embeds and stores chunks. Missing ids are generated. Either all
// chunks are handed to the index or none are.
func (s *Store) AddChunks(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	for i := range chunks {
		if chunks[i].Metadata.SessionID == "" {
			return ErrMissingSession
		}
		if chunks[i].ID == "" {
			chunks[i].ID = uuid.NewString()
		}
	}

	vectors := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range chunks {
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, chunks[i].Content, embedding.TaskRetrievalDocument)
			if err != nil {
				return fmt.Errorf("embed chunk %d of %s: %w", i, chunks[i].Metadata.Source, err)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.index.Upsert(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("upsert chunks: %w", err)
	}
	return nil
}

// SimilaritySearch returns the k chunks closest to query within filter.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int, filter Filter) ([]Chunk, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	vec, err := s.embedder.Embed(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	chunks, err := s.index.Search(ctx, vec, k, filter)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return chunks, nil
}
