package factory

import (
	"context"
	"fmt"

	"docchat-be/pkg/llm"
	"docchat-be/pkg/llm/claude"
	"docchat-be/pkg/llm/gemini"
	"docchat-be/pkg/llm/ollama"
	"docchat-be/pkg/llm/openai"
)

// Settings carries what any provider may need. Unused fields are ignored.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "gemini", "google":
		return gemini.NewGeminiProvider(ctx, s.APIKey, s.Model)
	case "claude", "anthropic":
		return claude.NewClaudeProvider(s.APIKey, s.Model)
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "openai":
		return openai.NewOpenAIProvider(s.APIKey, s.BaseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
