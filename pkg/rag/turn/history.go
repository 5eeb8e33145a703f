package turn

import (
	"encoding/json"

	"docchat-be/pkg/llm"
)

// EstimateTokens approximates a token count: about four ASCII characters
// per token, one token per non-ASCII rune.
func EstimateTokens(text string) int {
	weight := 0
	for _, r := range text {
		if r <= 127 {
			weight++
		} else {
			weight += 4
		}
	}
	return (weight + 3) / 4
}

func messageTokens(m llm.Message) int {
	n := EstimateTokens(m.Content)
	for _, tc := range m.ToolCalls {
		args, _ := json.Marshal(tc.Arguments)
		n += EstimateTokens(tc.Name) + EstimateTokens(string(args))
	}
	return n
}

// TrimHistory keeps the most recent messages within messageLimit and
// tokenLimit (zero disables a limit). The result always starts at a user
// message so no tool result is left without its call.
func TrimHistory(history []llm.Message, tokenLimit, messageLimit int) []llm.Message {
	if messageLimit > 0 && len(history) > messageLimit {
		history = history[len(history)-messageLimit:]
	}

	if tokenLimit > 0 {
		total := 0
		for _, m := range history {
			total += messageTokens(m)
		}
		for total > tokenLimit && len(history) > 0 {
			total -= messageTokens(history[0])
			history = history[1:]
		}
	}

	for len(history) > 0 && history[0].Role != llm.RoleUser {
		history = history[1:]
	}
	return history
}

// answerHistory keeps what the answer model sees: user and system
// messages plus assistant messages that did not call tools.
func answerHistory(history []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case llm.RoleUser, llm.RoleSystem:
			out = append(out, m)
		case llm.RoleAssistant:
			if !m.HasToolCalls() {
				out = append(out, m)
			}
		}
	}
	return out
}
