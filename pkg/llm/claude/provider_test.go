package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docchat-be/pkg/llm"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMessages(t *testing.T) {
	tests := []struct {
		name       string
		history    []llm.Message
		wantSystem string
		check      func(t *testing.T, out []anthropic.MessageParam)
	}{
		{
			name: "system prompts are joined and lifted out",
			history: []llm.Message{
				{Role: llm.RoleSystem, Content: "be brief"},
				{Role: llm.RoleSystem, Content: "cite sources"},
				{Role: llm.RoleUser, Content: "question"},
			},
			wantSystem: "be brief\n\ncite sources",
			check: func(t *testing.T, out []anthropic.MessageParam) {
				require.Len(t, out, 1)
				assert.Equal(t, anthropic.MessageParamRoleUser, out[0].Role)
				require.NotNil(t, out[0].Content[0].OfText)
				assert.Equal(t, "question", out[0].Content[0].OfText.Text)
			},
		},
		{
			name: "assistant tool calls become tool_use blocks",
			history: []llm.Message{
				{Role: llm.RoleAssistant, Content: "Checking.", ToolCalls: []llm.ToolCall{
					{ID: "c1", Name: "retrieve", Arguments: map[string]any{"query": "q"}},
				}},
			},
			check: func(t *testing.T, out []anthropic.MessageParam) {
				require.Len(t, out, 1)
				assert.Equal(t, anthropic.MessageParamRoleAssistant, out[0].Role)
				require.Len(t, out[0].Content, 2)
				assert.Equal(t, "Checking.", out[0].Content[0].OfText.Text)

				use := out[0].Content[1].OfToolUse
				require.NotNil(t, use)
				assert.Equal(t, "c1", use.ID)
				assert.Equal(t, "retrieve", use.Name)
				assert.Equal(t, map[string]any{"query": "q"}, use.Input)
			},
		},
		{
			name: "tool results answer their call from the user role",
			history: []llm.Message{
				{Role: llm.RoleTool, Name: "retrieve", ToolCallID: "c1", Content: "Source: x"},
			},
			check: func(t *testing.T, out []anthropic.MessageParam) {
				require.Len(t, out, 1)
				assert.Equal(t, anthropic.MessageParamRoleUser, out[0].Role)

				result := out[0].Content[0].OfToolResult
				require.NotNil(t, result)
				assert.Equal(t, "c1", result.ToolUseID)
				require.Len(t, result.Content, 1)
				assert.Equal(t, "Source: x", result.Content[0].OfText.Text)
			},
		},
		{
			name:    "empty assistant turns are dropped",
			history: []llm.Message{{Role: llm.RoleAssistant}},
			check: func(t *testing.T, out []anthropic.MessageParam) {
				assert.Empty(t, out)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, system := toMessages(tt.history)
			assert.Equal(t, tt.wantSystem, system)
			tt.check(t, out)
		})
	}
}

func TestClaudeProvider_ChatRoundTripsToolCalls(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"m",` +
			`"content":[{"type":"text","text":"Let me look."},{"type":"tool_use","id":"tu_2","name":"retrieve","input":{"query":"revenue"}}],` +
			`"stop_reason":"tool_use","usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	p := &ClaudeProvider{
		client: anthropic.NewClient(option.WithAPIKey("k"), option.WithBaseURL(srv.URL), option.WithMaxRetries(0)),
		model:  "m",
	}
	resp, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "What grew?"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "tu_1", Name: "retrieve", Arguments: map[string]any{"query": "growth"}}}},
		{Role: llm.RoleTool, ToolCallID: "tu_1", Content: "Revenue grew 20%."},
	}, llm.WithTools(llm.Tool{Name: "retrieve", Description: "d", Parameters: map[string]any{
		"type":       "object",
		"properties": map[string]any{"query": map[string]any{"type": "string"}},
		"required":   []string{"query"},
	}}))
	require.NoError(t, err)

	assert.Equal(t, "Let me look.", resp.Content)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "tu_2", resp.ToolCalls[0].ID)
	assert.Equal(t, "revenue", resp.ToolCalls[0].Arguments["query"])

	messages := got["messages"].([]any)
	require.Len(t, messages, 3)
	use := messages[1].(map[string]any)["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "tool_use", use["type"])
	assert.Equal(t, "tu_1", use["id"])
	assert.Equal(t, map[string]any{"query": "growth"}, use["input"])

	result := messages[2].(map[string]any)["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "tool_result", result["type"])
	assert.Equal(t, "tu_1", result["tool_use_id"])

	tools := got["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, "retrieve", tools[0].(map[string]any)["name"])
}

func TestNewClaudeProvider_RequiresKey(t *testing.T) {
	_, err := NewClaudeProvider("", "")
	assert.Error(t, err)
}
