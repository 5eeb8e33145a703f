package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"docchat-be/internal/pkg/logger"
)

// ByteStore is the minimal key/value contract the embedding cache needs.
// Get reports found=false for a missing key without an error.
type ByteStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cached memoises embeddings by model and text so re-uploading a document,
// or asking the same question twice, costs no provider calls.
// Cache failures are logged and fall through to the provider.
type Cached struct {
	next   EmbeddingProvider
	store  ByteStore
	ttl    time.Duration
	logger logger.ILogger
}

func NewCached(next EmbeddingProvider, store ByteStore, ttl time.Duration, log logger.ILogger) *Cached {
	return &Cached{next: next, store: store, ttl: ttl, logger: log}
}

func (c *Cached) Model() string { return c.next.Model() }

func (c *Cached) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	key := c.key(text, taskType)
	raw, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.warn("embedding cache read failed", key, err)
	case ok:
		vec, err := decodeVector(raw)
		if err == nil {
			return vec, nil
		}
		c.warn("discarding corrupt cached embedding", key, err)
	}

	vec, err := c.next.Embed(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, key, encodeVector(vec), c.ttl); err != nil {
		c.warn("embedding cache write failed", key, err)
	}
	return vec, nil
}

func (c *Cached) warn(message, key string, err error) {
	c.logger.Warn("EMBEDDING", message, map[string]interface{}{
		"key":   key,
		"error": err.Error(),
	})
}

func (c *Cached) key(text, taskType string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embedding:%s:%s:%s", c.next.Model(), taskType, hex.EncodeToString(sum[:]))
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("corrupt cached vector of %d bytes", len(raw))
	}
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return vec, nil
}
