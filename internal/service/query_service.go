package service

import (
	"context"
	"fmt"

	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/repository/contract"
	"docchat-be/pkg/rag/turn"
)

// TurnRunner is the turn orchestrator.
type TurnRunner interface {
	Run(ctx context.Context, in turn.TurnInput) (*turn.TurnResult, error)
}

type IQueryService interface {
	Ask(ctx context.Context, sessionID, question string) (*dto.AskResponse, error)
}

type queryService struct {
	orchestrator TurnRunner
	registry     contract.DocumentRegistryRepository
	timeouts     Timeouts
	logger       logger.ILogger
}

func NewQueryService(orchestrator TurnRunner, registry contract.DocumentRegistryRepository, timeouts Timeouts, log logger.ILogger) IQueryService {
	return &queryService{orchestrator: orchestrator, registry: registry, timeouts: timeouts, logger: log}
}

func (s *queryService) Ask(ctx context.Context, sessionID, question string) (*dto.AskResponse, error) {
	documents, err := s.documents(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %w", turn.ErrQueryFailed, err)
	}
	if len(documents) == 0 {
		return nil, ErrNoDocuments
	}

	result, err := s.orchestrator.Run(ctx, turn.TurnInput{
		SessionID: sessionID,
		Question:  question,
		Documents: documents,
	})
	if err != nil {
		return nil, err
	}

	sources := make([]dto.SourceDTO, 0, len(result.Context))
	for _, c := range result.Context {
		sources = append(sources, dto.SourceDTO{Content: c.Content, Source: c.Metadata.Source})
	}

	s.logger.Debug("QUERY", "question answered", map[string]interface{}{
		"session_id": sessionID,
		"sources":    len(sources),
	})
	return &dto.AskResponse{Answer: result.Answer, Source: sources, ChatId: sessionID}, nil
}

func (s *queryService) documents(ctx context.Context, sessionID string) ([]string, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Store)
	defer cancel()
	return s.registry.List(ctx, sessionID)
}
