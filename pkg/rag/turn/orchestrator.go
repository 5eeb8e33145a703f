// Package turn runs one conversational turn through DECIDE, an optional
// RETRIEVE and GENERATE, and reports the answer with its source chunks.
package turn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docchat-be/internal/entity"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/repository/contract"
	"docchat-be/pkg/llm"
	"docchat-be/pkg/rag/prompt"
	"docchat-be/pkg/rag/retrieval"
	"docchat-be/pkg/utils"
	"docchat-be/pkg/vectorstore"
)

const logModule = "TURN"

// ErrQueryFailed is the only error Run returns for a failed turn. The
// cause is wrapped alongside it for logging.
var ErrQueryFailed = errors.New("query processing failed")

// Retriever executes the retrieve tool.
type Retriever interface {
	Retrieve(ctx context.Context, query, sessionID string, filenames []string) (*retrieval.Outcome, error)
}

type Config struct {
	LLMTimeout          time.Duration
	StoreTimeout        time.Duration
	HistoryTokenLimit   int
	HistoryMessageLimit int
}

func DefaultConfig() Config {
	return Config{
		LLMTimeout:          60 * time.Second,
		StoreTimeout:        15 * time.Second,
		HistoryTokenLimit:   6000,
		HistoryMessageLimit: 40,
	}
}

// TurnInput is one question. Documents lists the session's registered
// filenames; they are hinted to the model and bound filename filters.
type TurnInput struct {
	SessionID string
	Question  string
	Documents []string
}

// TurnResult is the answer and the chunks retrieved during this turn only.
type TurnResult struct {
	Answer  string
	Context []vectorstore.Chunk
}

type state int

const (
	stateDecide state = iota
	stateRetrieve
	stateGenerate
	stateDone
)

// turnState lives for a single Run; nothing in it outlives the turn.
type turnState struct {
	input    TurnInput
	history  []llm.Message
	messages []llm.Message // produced this turn, persisted on success
	request  *RetrievalRequest
	outcome  *retrieval.Outcome
	answer   string
}

type Orchestrator struct {
	llm           llm.LLMProvider
	retriever     Retriever
	conversations contract.ConversationRepository
	logger        logger.ILogger
	config        Config
	locks         *utils.KeyedMutex
}

func NewOrchestrator(
	provider llm.LLMProvider,
	retriever Retriever,
	conversations contract.ConversationRepository,
	log logger.ILogger,
	config Config,
) *Orchestrator {
	return &Orchestrator{
		llm:           provider,
		retriever:     retriever,
		conversations: conversations,
		logger:        log,
		config:        config,
		locks:         utils.NewKeyedMutex(),
	}
}

// Run executes one turn. Turns of the same session are serialized; turns
// of different sessions run independently. On any failure nothing is
// persisted and the error wraps ErrQueryFailed.
func (o *Orchestrator) Run(ctx context.Context, in TurnInput) (*TurnResult, error) {
	if in.SessionID == "" {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, vectorstore.ErrMissingSession)
	}

	unlock, err := o.locks.LockContext(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: wait for session: %w", ErrQueryFailed, err)
	}
	defer unlock()

	start := time.Now()
	result, err := o.run(ctx, in)
	if err != nil {
		o.logger.Error(logModule, "turn failed", map[string]interface{}{
			"session_id": in.SessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	o.logger.Info(logModule, "turn completed", map[string]interface{}{
		"session_id":  in.SessionID,
		"retrieved":   len(result.Context),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, in TurnInput) (*TurnResult, error) {
	conv, err := o.loadConversation(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	t := &turnState{
		input:   in,
		history: TrimHistory(conv.Messages, o.config.HistoryTokenLimit, o.config.HistoryMessageLimit),
	}
	t.messages = append(t.messages, llm.Message{
		Role:    llm.RoleUser,
		Content: prompt.WithDocuments(in.Question, in.Documents),
	})

	for st := stateDecide; st != stateDone; {
		switch st {
		case stateDecide:
			st, err = o.decide(ctx, t)
		case stateRetrieve:
			st, err = o.retrieve(ctx, t)
		case stateGenerate:
			st, err = o.generate(ctx, t)
		}
		if err != nil {
			return nil, err
		}
	}

	conv.Messages = append(conv.Messages, t.messages...)
	if err := o.saveConversation(ctx, conv); err != nil {
		return nil, err
	}

	result := &TurnResult{Answer: t.answer, Context: []vectorstore.Chunk{}}
	if t.outcome != nil {
		result.Context = t.outcome.Chunks
	}
	return result, nil
}

func (o *Orchestrator) decide(ctx context.Context, t *turnState) (state, error) {
	cctx, cancel := withTimeout(ctx, o.config.LLMTimeout)
	defer cancel()

	history := append(append([]llm.Message(nil), t.history...), t.messages...)
	resp, err := o.llm.Chat(cctx, history, llm.WithTools(retrieval.Tool()), llm.WithTemperature(0))
	if err != nil {
		return stateDone, fmt.Errorf("decide: %w", err)
	}

	d, dropped, err := decide(resp, t.input.Question, t.input.Documents)
	if err != nil {
		return stateDone, fmt.Errorf("decide: %w", err)
	}
	if dropped > 0 {
		o.logger.Warn(logModule, "multiple tool calls in one turn, executing the first", map[string]interface{}{
			"session_id": t.input.SessionID,
			"dropped":    dropped,
		})
	}

	switch d := d.(type) {
	case DirectAnswer:
		t.answer = d.Text
		t.messages = append(t.messages, llm.Message{Role: llm.RoleAssistant, Content: d.Text})
		return stateDone, nil
	case RetrievalRequest:
		t.request = &d
		first := resp.ToolCalls[0]
		t.messages = append(t.messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: []llm.ToolCall{{ID: d.CallID, Name: first.Name, Arguments: first.Arguments}},
		})
		return stateRetrieve, nil
	}
	return stateDone, fmt.Errorf("decide: unexpected decision %T", d)
}

func (o *Orchestrator) retrieve(ctx context.Context, t *turnState) (state, error) {
	cctx, cancel := withTimeout(ctx, o.config.StoreTimeout)
	defer cancel()

	// The session always comes from the caller, never from model output.
	outcome, err := o.retriever.Retrieve(cctx, t.request.Query, t.input.SessionID, t.request.Filenames)
	if err != nil {
		return stateDone, fmt.Errorf("retrieve: %w", err)
	}
	o.logger.Debug(logModule, "retrieved chunks", map[string]interface{}{
		"session_id": t.input.SessionID,
		"query":      t.request.Query,
		"filenames":  t.request.Filenames,
		"chunks":     len(outcome.Chunks),
	})

	t.outcome = outcome
	t.messages = append(t.messages, llm.Message{
		Role:       llm.RoleTool,
		Name:       retrieval.ToolName,
		ToolCallID: t.request.CallID,
		Content:    outcome.Serialized,
	})
	return stateGenerate, nil
}

func (o *Orchestrator) generate(ctx context.Context, t *turnState) (state, error) {
	cctx, cancel := withTimeout(ctx, o.config.LLMTimeout)
	defer cancel()

	history := append(append([]llm.Message(nil), t.history...), t.messages...)
	msgs := append([]llm.Message{{Role: llm.RoleSystem, Content: prompt.System(t.outcome.Serialized)}}, answerHistory(history)...)

	resp, err := o.llm.Chat(cctx, msgs)
	if err != nil {
		return stateDone, fmt.Errorf("generate: %w", err)
	}
	if resp == nil {
		return stateDone, fmt.Errorf("generate: empty model response")
	}

	t.answer = resp.Content
	t.messages = append(t.messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
	return stateDone, nil
}

func (o *Orchestrator) loadConversation(ctx context.Context, sessionID string) (*entity.Conversation, error) {
	cctx, cancel := withTimeout(ctx, o.config.StoreTimeout)
	defer cancel()

	conv, err := o.conversations.Load(cctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conv == nil {
		conv = &entity.Conversation{SessionID: sessionID}
	}
	return conv, nil
}

func (o *Orchestrator) saveConversation(ctx context.Context, conv *entity.Conversation) error {
	cctx, cancel := withTimeout(ctx, o.config.StoreTimeout)
	defer cancel()

	if err := o.conversations.Save(cctx, conv); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
