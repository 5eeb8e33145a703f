// Package llmtest provides an in-memory LLMProvider for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"docchat-be/pkg/llm"
)

// ErrScriptExhausted is returned when Chat is called more often than scripted.
var ErrScriptExhausted = errors.New("llmtest: no scripted response left")

// Call records one Chat invocation.
type Call struct {
	History []llm.Message
	Options llm.Options
}

// Step is either a response or an error.
type Step struct {
	Response *llm.Response
	Err      error
}

// ScriptedProvider replays Steps in order and records every call.
type ScriptedProvider struct {
	mu    sync.Mutex
	steps []Step
	calls []Call
}

var _ llm.LLMProvider = &ScriptedProvider{}

func NewScriptedProvider(steps ...Step) *ScriptedProvider {
	return &ScriptedProvider{steps: steps}
}

// Text is a Step answering with plain content.
func Text(content string) Step {
	return Step{Response: &llm.Response{Content: content}}
}

// ToolCall is a Step requesting a single tool invocation.
func ToolCall(id, name string, args map[string]any) Step {
	return Step{Response: &llm.Response{ToolCalls: []llm.ToolCall{{ID: id, Name: name, Arguments: args}}}}
}

// Fail is a Step returning err.
func Fail(err error) Step {
	return Step{Err: err}
}

// Push appends more steps.
func (p *ScriptedProvider) Push(steps ...Step) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, steps...)
}

func (p *ScriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, Call{
		History: append([]llm.Message(nil), history...),
		Options: *llm.Apply(llm.Options{}, opts...),
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(p.steps) == 0 {
		return nil, ErrScriptExhausted
	}
	step := p.steps[0]
	p.steps = p.steps[1:]
	return step.Response, step.Err
}

func (p *ScriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	resp, err := p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Calls returns a copy of the recorded calls.
func (p *ScriptedProvider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}
