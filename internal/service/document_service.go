package service

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"docchat-be/internal/config"
	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/repository/contract"
	"docchat-be/pkg/pdf"
	"docchat-be/pkg/utils"
	"docchat-be/pkg/vectorstore"
)

// UploadFile is one multipart file already read into memory.
type UploadFile struct {
	Filename string
	Size     int64
	Data     []byte
}

// ChunkWriter is the write side of vectorstore.Store.
type ChunkWriter interface {
	AddChunks(ctx context.Context, chunks []vectorstore.Chunk) error
}

type IDocumentService interface {
	Upload(ctx context.Context, sessionID string, files []UploadFile) (*dto.UploadResponse, error)
}

type documentService struct {
	store    ChunkWriter
	registry contract.DocumentRegistryRepository
	cfg      config.UploadConfig
	timeouts Timeouts
	logger   logger.ILogger
}

func NewDocumentService(
	store ChunkWriter,
	registry contract.DocumentRegistryRepository,
	cfg config.UploadConfig,
	timeouts Timeouts,
	log logger.ILogger,
) IDocumentService {
	return &documentService{store: store, registry: registry, cfg: cfg, timeouts: timeouts, logger: log}
}

// Upload validates every file before storing anything, then embeds all
// chunks and registers the filenames for the session.
func (s *documentService) Upload(ctx context.Context, sessionID string, files []UploadFile) (*dto.UploadResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	for _, f := range files {
		if !s.allowed(f.Filename) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, f.Filename)
		}
		if s.cfg.MaxSize > 0 && max(f.Size, int64(len(f.Data))) > s.cfg.MaxSize {
			return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, f.Filename)
		}
	}

	var chunks []vectorstore.Chunk
	filenames := make([]string, 0, len(files))
	for _, f := range files {
		pages, err := pdf.Extract(f.Data)
		if err != nil {
			s.logger.Warn("DOCUMENT", "pdf extraction failed", map[string]interface{}{
				"session_id": sessionID,
				"filename":   f.Filename,
				"error":      err.Error(),
			})
			return nil, &PDFError{Filename: f.Filename, Err: err}
		}

		for _, page := range pages {
			for _, text := range utils.SplitText(page.Text, s.cfg.ChunkSize, s.cfg.ChunkOverlap) {
				chunks = append(chunks, vectorstore.Chunk{
					Content: text,
					Metadata: vectorstore.Metadata{
						SessionID:  sessionID,
						Source:     f.Filename,
						Page:       page.Number,
						TotalPages: page.TotalPages,
					},
				})
			}
		}
		filenames = append(filenames, f.Filename)
	}

	if err := s.addChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}
	for i, name := range filenames {
		if err := s.register(ctx, sessionID, name); err != nil {
			// The chunks stay indexed but the documents hint will not list
			// these files until they are uploaded again.
			s.logger.Error("DOCUMENT", "registering uploaded files failed", map[string]interface{}{
				"session_id": sessionID,
				"orphaned":   filenames[i:],
				"error":      err.Error(),
			})
			return nil, fmt.Errorf("register %s: %w", name, err)
		}
	}

	s.logger.Info("DOCUMENT", "documents uploaded", map[string]interface{}{
		"session_id": sessionID,
		"files":      filenames,
		"chunks":     len(chunks),
	})
	return &dto.UploadResponse{ChatId: sessionID, TotalChunks: len(chunks), Filenames: filenames}, nil
}

func (s *documentService) addChunks(ctx context.Context, chunks []vectorstore.Chunk) error {
	ctx, cancel := withTimeout(ctx, s.timeouts.Embed)
	defer cancel()
	return s.store.AddChunks(ctx, chunks)
}

func (s *documentService) register(ctx context.Context, sessionID, filename string) error {
	ctx, cancel := withTimeout(ctx, s.timeouts.Store)
	defer cancel()
	return s.registry.Register(ctx, sessionID, filename)
}

func (s *documentService) allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	allowed := s.cfg.AllowedExtensions
	if len(allowed) == 0 {
		allowed = []string{"pdf"}
	}
	return slices.Contains(allowed, ext)
}
