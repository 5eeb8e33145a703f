package entity

import (
	"time"

	"docchat-be/pkg/llm"
)

// Conversation is the persisted checkpoint of one session's chat history.
// Version implements optimistic concurrency: 0 means never saved.
type Conversation struct {
	SessionID string        `json:"session_id"`
	Messages  []llm.Message `json:"messages"`
	Version   int64         `json:"version"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Clone returns a copy that shares no mutable state with c.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	out.Messages = make([]llm.Message, len(c.Messages))
	for i, m := range c.Messages {
		if m.ToolCalls != nil {
			m.ToolCalls = append([]llm.ToolCall(nil), m.ToolCalls...)
		}
		out.Messages[i] = m
	}
	return &out
}
