package embedding

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"docchat-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func magnitude(v []float32) float64 {
	var m float64
	for _, x := range v {
		m += float64(x) * float64(x)
	}
	return math.Sqrt(m)
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func TestNormalizeVector(t *testing.T) {
	got := normalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, got[0], 1e-6)
	assert.InDelta(t, 0.8, got[1], 1e-6)

	zero := []float32{0, 0}
	assert.Equal(t, zero, normalizeVector(zero))
}

func TestHashProvider(t *testing.T) {
	ctx := context.Background()
	p := NewHashProvider(128)

	a, err := p.Embed(ctx, "Revenue grew 20%.", TaskRetrievalDocument)
	require.NoError(t, err)
	b, err := p.Embed(ctx, "Revenue grew 20%.", TaskRetrievalQuery)
	require.NoError(t, err)
	assert.Equal(t, a, b, "deterministic regardless of task")
	assert.InDelta(t, 1.0, magnitude(a), 1e-5)

	related, _ := p.Embed(ctx, "What was the revenue growth?", TaskRetrievalQuery)
	unrelated, _ := p.Embed(ctx, "zebra migration patterns", TaskRetrievalQuery)
	assert.Greater(t, dot(a, related), dot(a, unrelated))

	assert.Equal(t, "hash/128", p.Model())
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"revenue", "grew", "20"}, Tokenize("Revenue grew 20%."))
	assert.Empty(t, Tokenize("  ...  "))
}

type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

type countingProvider struct {
	calls int
	err   error
}

func (c *countingProvider) Model() string { return "counting" }

func (c *countingProvider) Embed(_ context.Context, text, _ string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 0.5}, nil
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	next := &countingProvider{}
	store := &mapStore{data: map[string][]byte{}}
	c := NewCached(next, store, time.Hour, logger.NewNopLogger())

	first, err := c.Embed(ctx, "hello", TaskRetrievalDocument)
	require.NoError(t, err)
	second, err := c.Embed(ctx, "hello", TaskRetrievalDocument)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Len(t, store.data, 1)

	_, _ = c.Embed(ctx, "hello", TaskRetrievalQuery)
	assert.Equal(t, 2, next.calls, "task type is part of the key")
}

func TestCached_PropagatesErrorsAndSkipsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	next := &countingProvider{err: boom}
	store := &mapStore{data: map[string][]byte{}}
	c := NewCached(next, store, time.Hour, logger.NewNopLogger())

	_, err := c.Embed(ctx, "x", TaskRetrievalQuery)
	assert.ErrorIs(t, err, boom)

	store.data[c.key("y", TaskRetrievalQuery)] = []byte{1, 2, 3}
	next.err = nil
	vec, err := c.Embed(ctx, "y", TaskRetrievalQuery)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0.5}, vec)
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }

func (f failingStore) Set(context.Context, string, []byte, time.Duration) error { return f.err }

type warnLogger struct {
	logger.ILogger
	mu    sync.Mutex
	warns []string
}

func (w *warnLogger) Warn(_, message string, details map[string]interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warns = append(w.warns, message+": "+details["error"].(string))
}

func TestCached_LogsStoreFailures(t *testing.T) {
	next := &countingProvider{}
	log := &warnLogger{ILogger: logger.NewNopLogger()}
	c := NewCached(next, failingStore{err: errors.New("cache down")}, time.Hour, log)

	vec, err := c.Embed(context.Background(), "hello", TaskRetrievalQuery)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 0.5}, vec)
	assert.Equal(t, []string{
		"embedding cache read failed: cache down",
		"embedding cache write failed: cache down",
	}, log.warns)
}

func TestCached_LogsCorruptEntry(t *testing.T) {
	next := &countingProvider{}
	store := &mapStore{data: map[string][]byte{}}
	log := &warnLogger{ILogger: logger.NewNopLogger()}
	c := NewCached(next, store, time.Hour, log)
	store.data[c.key("y", TaskRetrievalQuery)] = []byte{1, 2, 3}

	_, err := c.Embed(context.Background(), "y", TaskRetrievalQuery)
	require.NoError(t, err)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "discarding corrupt cached embedding")
}

func TestRateLimited(t *testing.T) {
	next := &countingProvider{}
	r := NewRateLimited(next, 0, 1)

	_, err := r.Embed(context.Background(), "a", TaskRetrievalQuery)
	require.NoError(t, err)
	assert.Equal(t, "counting", r.Model())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	limited := NewRateLimited(next, 0.001, 1)
	_, _ = limited.Embed(context.Background(), "burst", TaskRetrievalQuery)
	_, err = limited.Embed(ctx, "b", TaskRetrievalQuery)
	assert.Error(t, err)
}

func TestOllamaProvider_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		_, _ = w.Write([]byte(`{"embedding":[3,4]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	vec, err := p.Embed(context.Background(), "text", TaskRetrievalDocument)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.Equal(t, "ollama/nomic-embed-text", p.Model())
}
