package memory

import (
	"context"
	"sort"
	"sync"

	"docchat-be/pkg/vectorstore"
)

// Index is an in-memory vector index using brute-force cosine similarity.
// It is safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	vectors [][]float32
	chunks  []vectorstore.Chunk
	byID    map[string]int
}

var _ vectorstore.Index = (*Index)(nil)

func NewIndex() *Index {
	return &Index{byID: make(map[string]int)}
}

func (x *Index) Upsert(ctx context.Context, chunks []vectorstore.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return vectorstore.ErrLengthMismatch
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	for i, c := range chunks {
		if pos, ok := x.byID[c.ID]; ok {
			x.chunks[pos] = c
			x.vectors[pos] = vectors[i]
			continue
		}
		x.byID[c.ID] = len(x.chunks)
		x.chunks = append(x.chunks, c)
		x.vectors = append(x.vectors, vectors[i])
	}
	return nil
}

func (x *Index) Search(ctx context.Context, vector []float32, k int, filter vectorstore.Filter) ([]vectorstore.Chunk, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	type scored struct {
		pos   int
		score float64
	}
	// Filter before ranking so foreign sessions never compete for top-k.
	var candidates []scored
	for i, c := range x.chunks {
		if filter.Matches(c.Metadata) {
			candidates = append(candidates, scored{pos: i, score: dot(x.vectors[i], vector)})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	if k > len(candidates) {
		k = len(candidates)
	}

	results := make([]vectorstore.Chunk, 0, k)
	for _, c := range candidates[:k] {
		results = append(results, x.chunks[c.pos])
	}
	return results, nil
}

// Len reports the number of stored chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks)
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
