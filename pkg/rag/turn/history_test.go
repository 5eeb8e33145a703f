package turn

import (
	"strings"
	"testing"

	"docchat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
	assert.Equal(t, 2, EstimateTokens("日本"))
}

func TestTrimHistory(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "q1"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "c1", Name: "retrieve"}}},
		{Role: llm.RoleTool, Content: strings.Repeat("x", 400)},
		{Role: llm.RoleAssistant, Content: "a1"},
		{Role: llm.RoleUser, Content: "q2"},
		{Role: llm.RoleAssistant, Content: "a2"},
	}

	t.Run("no limits", func(t *testing.T) {
		assert.Equal(t, history, TrimHistory(history, 0, 0))
	})

	t.Run("message limit starts at a user message", func(t *testing.T) {
		got := TrimHistory(history, 0, 4)
		assert.Equal(t, history[4:], got)
	})

	t.Run("token limit drops the oldest", func(t *testing.T) {
		got := TrimHistory(history, 50, 0)
		assert.Equal(t, history[4:], got)
	})

	t.Run("everything trimmed", func(t *testing.T) {
		assert.Empty(t, TrimHistory(history, 0, 1))
	})
}

func TestAnswerHistory(t *testing.T) {
	got := answerHistory([]llm.Message{
		{Role: llm.RoleSystem, Content: "s"},
		{Role: llm.RoleUser, Content: "q"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "c1"}}},
		{Role: llm.RoleTool, Content: "t"},
		{Role: llm.RoleAssistant, Content: "a"},
	})
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleSystem, Content: "s"},
		{Role: llm.RoleUser, Content: "q"},
		{Role: llm.RoleAssistant, Content: "a"},
	}, got)
}
