package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GeminiProvider struct {
	client    *genai.Client
	model     string
	dimension int32
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, dimension int) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = "text-embedding-004"
	}
	return &GeminiProvider{client: client, model: model, dimension: int32(dimension)}, nil
}

func (p *GeminiProvider) Model() string { return "gemini/" + p.model }

func (p *GeminiProvider) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	config := &genai.EmbedContentConfig{TaskType: taskType}
	if p.dimension > 0 {
		config.OutputDimensionality = &p.dimension
	}

	result, err := p.client.Models.EmbedContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, config)
	if err != nil {
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embed content: empty embedding")
	}

	// Truncated outputs are not unit length.
	return normalizeVector(result.Embeddings[0].Values), nil
}
