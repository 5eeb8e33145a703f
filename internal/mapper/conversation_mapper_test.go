package mapper

import (
	"testing"
	"time"

	"docchat-be/internal/entity"
	"docchat-be/internal/model"
	"docchat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestConversationMapper_RoundTrip(t *testing.T) {
	m := NewConversationMapper()
	in := &entity.Conversation{
		SessionID: "s1",
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "What grew?"},
			{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "c1", Name: "search_documents", Arguments: map[string]interface{}{"query": "growth"}}}},
			{Role: llm.RoleTool, Content: "Revenue grew 20%.", ToolCallID: "c1"},
		},
		Version:   4,
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	row := m.ToModel(in)
	assert.Equal(t, "s1", row.SessionId)
	assert.Equal(t, int64(4), row.Version)
	assert.Equal(t, in, m.ToEntity(row))
}

func TestConversationMapper_EmptyRowHasNoNilMessages(t *testing.T) {
	got := NewConversationMapper().ToEntity(&model.Conversation{SessionId: "s1"})
	assert.NotNil(t, got.Messages)
	assert.Empty(t, got.Messages)
}
