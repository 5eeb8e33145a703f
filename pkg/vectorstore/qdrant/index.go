package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"docchat-be/pkg/vectorstore"

	"github.com/qdrant/go-client/qdrant"
)

// Payload keys.
const (
	keyContent    = "content"
	keySession    = "chat_id"
	keySource     = "source"
	keyPage       = "page"
	keyTotalPages = "total_pages"
)

// Config holds Qdrant connection configuration.
type Config struct {
	// URL is the Qdrant gRPC address (e.g., "https://example.qdrant.io:6334").
	URL string

	CollectionName string

	// APIKey is optional API key for authentication.
	APIKey string

	// Dimension is used when the collection has to be created.
	Dimension int
}

// Index implements vectorstore.Index on a Qdrant collection.
type Index struct {
	client         *qdrant.Client
	collectionName string
}

var _ vectorstore.Index = (*Index)(nil)

// New connects to Qdrant and makes sure the collection and its payload
// indexes exist.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}
	if cfg.CollectionName == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}

	parsedURL := cfg.URL
	if !strings.HasPrefix(parsedURL, "http://") && !strings.HasPrefix(parsedURL, "https://") {
		parsedURL = "http://" + parsedURL
	}
	u, err := url.Parse(parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse qdrant url: %w", err)
	}

	port := 6334 // default gRPC port
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		port = p
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   u.Hostname(),
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	idx := &Index{client: client, collectionName: cfg.CollectionName}
	if err := idx.ensureCollection(ctx, cfg.Dimension); err != nil {
		_ = client.Close()
		return nil, err
	}
	return idx, nil
}

func (x *Index) ensureCollection(ctx context.Context, dimension int) error {
	exists, err := x.client.CollectionExists(ctx, x.collectionName)
	if err != nil {
		return fmt.Errorf("qdrant collection check failed: %w", err)
	}
	if exists {
		return nil
	}
	if dimension <= 0 {
		return fmt.Errorf("qdrant collection %q missing and no dimension configured", x.collectionName)
	}

	err = x.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: x.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant create collection failed: %w", err)
	}

	for _, field := range []string{keySession, keySource} {
		_, err := x.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: x.collectionName,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("qdrant create index on %s failed: %w", field, err)
		}
	}
	return nil
}

func (x *Index) Upsert(ctx context.Context, chunks []vectorstore.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return vectorstore.ErrLengthMismatch
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, c := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(c.ID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				keyContent:    c.Content,
				keySession:    c.Metadata.SessionID,
				keySource:     c.Metadata.Source,
				keyPage:       int64(c.Metadata.Page),
				keyTotalPages: int64(c.Metadata.TotalPages),
			}),
		}
	}

	wait := true
	_, err := x.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: x.collectionName,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
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

	limit := uint64(k)
	points, err := x.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: x.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		Filter:         buildFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	results := make([]vectorstore.Chunk, 0, len(points))
	for _, point := range points {
		c := vectorstore.Chunk{}
		if point.Id != nil {
			c.ID = point.Id.GetUuid()
		}
		p := point.Payload
		c.Content = p[keyContent].GetStringValue()
		c.Metadata = vectorstore.Metadata{
			SessionID:  p[keySession].GetStringValue(),
			Source:     p[keySource].GetStringValue(),
			Page:       int(p[keyPage].GetIntegerValue()),
			TotalPages: int(p[keyTotalPages].GetIntegerValue()),
		}
		results = append(results, c)
	}
	return results, nil
}

func (x *Index) Close() error {
	return x.client.Close()
}

// buildFilter always requires the session; sources add an equality or
// set-membership condition.
func buildFilter(filter vectorstore.Filter) *qdrant.Filter {
	conditions := []*qdrant.Condition{keywordCondition(keySession, filter.SessionID)}

	switch len(filter.Sources) {
	case 0:
	case 1:
		conditions = append(conditions, keywordCondition(keySource, filter.Sources[0]))
	default:
		keywords := make([]string, len(filter.Sources))
		copy(keywords, filter.Sources)
		conditions = append(conditions, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key: keySource,
					Match: &qdrant.Match{
						MatchValue: &qdrant.Match_Keywords{
							Keywords: &qdrant.RepeatedStrings{Strings: keywords},
						},
					},
				},
			},
		})
	}

	return &qdrant.Filter{Must: conditions}
}

func keywordCondition(key, value string) *qdrant.Condition {
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key:   key,
				Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: value}},
			},
		},
	}
}
