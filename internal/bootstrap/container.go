package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docchat-be/internal/config"
	"docchat-be/internal/controller"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/pkg/serverutils"
	"docchat-be/internal/repository/contract"
	"docchat-be/internal/repository/implementation"
	"docchat-be/internal/repository/memory"
	"docchat-be/internal/repository/redisstore"
	"docchat-be/internal/service"
	"docchat-be/pkg/database"
	"docchat-be/pkg/embedding"
	"docchat-be/pkg/llm"
	"docchat-be/pkg/llm/factory"
	"docchat-be/pkg/rag/retrieval"
	"docchat-be/pkg/rag/turn"
	"docchat-be/pkg/vectorstore"
	memindex "docchat-be/pkg/vectorstore/memory"
	"docchat-be/pkg/vectorstore/qdrant"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const logModule = "BOOTSTRAP"

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	QueryController    controller.IQueryController
	HealthController   controller.IHealthController

	Logger logger.ILogger

	db      *gorm.DB
	closers []func() error
}

// NewContainer builds every collaborator from cfg. The caller owns the
// container and must Close it.
func NewContainer(ctx context.Context, cfg *config.Config, log logger.ILogger) (*Container, error) {
	c := &Container{Logger: log}

	// 1. Session state stores
	var (
		conversations contract.ConversationRepository
		registry      contract.DocumentRegistryRepository
		byteStore     embedding.ByteStore
	)
	switch {
	case cfg.Storage.RedisURL != "":
		rdb, err := newRedisClient(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, rdb.Close)
		conversations = redisstore.NewConversationRepository(rdb, cfg.Session.TTL, log)
		registry = redisstore.NewDocumentRegistryRepository(rdb, cfg.Session.TTL)
		byteStore = redisstore.NewByteStore(rdb)
		log.Info(logModule, "using redis session stores", nil)
	case strings.EqualFold(cfg.Storage.VectorStore, "pgvector"):
		db, err := c.postgres(cfg)
		if err != nil {
			return nil, err
		}
		repo := implementation.NewConversationRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate conversations: %w", err)
		}
		conversations = repo
		registry = memory.NewDocumentRegistryRepository(cfg.Session.TTL)
		byteStore = memory.NewByteStore(cfg.Storage.CacheTTL)
		log.Info(logModule, "using postgres conversation store", nil)
	default:
		conversations = memory.NewConversationRepository(cfg.Session.TTL)
		registry = memory.NewDocumentRegistryRepository(cfg.Session.TTL)
		byteStore = memory.NewByteStore(cfg.Storage.CacheTTL)
		log.Info(logModule, "using in-process session stores", nil)
	}

	// 2. Embeddings: provider, rate limit, cache
	embedder, err := newEmbedder(ctx, cfg.Ai)
	if err != nil {
		return nil, err
	}
	embedder = embedding.NewRateLimited(embedder, cfg.Ai.EmbedRequestsPerSec, max(1, cfg.Upload.EmbedConcurrency))
	embedder = embedding.NewCached(embedder, byteStore, cfg.Storage.CacheTTL, log)
	log.Info(logModule, "embedding provider ready", map[string]interface{}{"model": embedder.Model()})

	// 3. Vector index
	index, err := c.newIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := vectorstore.NewStore(embedder, index, vectorstore.WithConcurrency(cfg.Upload.EmbedConcurrency))

	// 4. Chat model
	chat, err := newLLM(ctx, cfg.Ai)
	if err != nil {
		return nil, err
	}
	log.Info(logModule, "llm provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.ChatModel,
	})

	// 5. Services
	orchestrator := turn.NewOrchestrator(chat, retrieval.NewRetriever(store), conversations, log, turn.Config{
		LLMTimeout:          cfg.Ai.LLMTimeout,
		StoreTimeout:        cfg.Ai.StoreTimeout,
		HistoryTokenLimit:   cfg.Storage.HistoryTokenLimit,
		HistoryMessageLimit: cfg.Storage.HistoryMessageLimit,
	})
	timeouts := service.Timeouts{
		Store: cfg.Ai.StoreTimeout,
		Embed: cfg.Upload.Timeout,
	}
	documentService := service.NewDocumentService(store, registry, cfg.Upload, timeouts, log)
	queryService := service.NewQueryService(orchestrator, registry, timeouts, log)

	// 6. Controllers
	session := serverutils.SessionCookie{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.App.IsProduction(),
	}
	c.DocumentController = controller.NewDocumentController(documentService, session, cfg.Upload.MaxSize)
	c.QueryController = controller.NewQueryController(queryService, session)
	c.HealthController = controller.NewHealthController(cfg.App.ProjectName)

	return c, nil
}

// Close releases connections in reverse creation order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	return errors.Join(errs...)
}

func newRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}

func newEmbedder(ctx context.Context, ai config.AIConfig) (embedding.EmbeddingProvider, error) {
	switch strings.ToLower(ai.EmbeddingProvider) {
	case "ollama":
		model := ai.EmbeddingModel
		if model == "" {
			model = "nomic-embed-text"
		}
		return embedding.NewOllamaProvider(ai.OllamaBaseURL, model), nil
	case "hash":
		return embedding.NewHashProvider(ai.EmbeddingDimension), nil
	case "gemini", "":
		return embedding.NewGeminiProvider(ctx, ai.GoogleAPIKey, ai.EmbeddingModel, ai.EmbeddingDimension)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", ai.EmbeddingProvider)
	}
}

func newLLM(ctx context.Context, ai config.AIConfig) (llm.LLMProvider, error) {
	s := factory.Settings{Provider: strings.ToLower(ai.LLMProvider), Model: ai.ChatModel}
	switch s.Provider {
	case "gemini", "google":
		s.APIKey = ai.GoogleAPIKey
	case "claude", "anthropic":
		s.APIKey = ai.AnthropicAPIKey
	case "ollama":
		s.BaseURL = ai.OllamaBaseURL
	case "openai":
		s.APIKey, s.BaseURL = ai.OpenAIAPIKey, ai.OpenAIBaseURL
	}
	return factory.NewLLMProvider(ctx, s)
}

// postgres opens the shared gorm connection on first use.
func (c *Container) postgres(cfg *config.Config) (*gorm.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	db, err := database.NewGormDBFromDSN(cfg.Storage.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		c.closers = append(c.closers, sqlDB.Close)
	}
	c.db = db
	return db, nil
}

func (c *Container) newIndex(ctx context.Context, cfg *config.Config) (vectorstore.Index, error) {
	switch strings.ToLower(cfg.Storage.VectorStore) {
	case "pgvector":
		db, err := c.postgres(cfg)
		if err != nil {
			return nil, err
		}
		repo := implementation.NewDocumentChunkRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate document chunks: %w", err)
		}
		c.Logger.Info(logModule, "using pgvector index", nil)
		return repo, nil
	case "qdrant":
		idx, err := qdrant.New(ctx, qdrant.Config{
			URL:            cfg.Storage.QdrantURL,
			CollectionName: cfg.Storage.QdrantCollection,
			APIKey:         cfg.Storage.QdrantAPIKey,
			Dimension:      cfg.Ai.EmbeddingDimension,
		})
		if err != nil {
			return nil, fmt.Errorf("connect qdrant: %w", err)
		}
		c.closers = append(c.closers, idx.Close)
		c.Logger.Info(logModule, "using qdrant index", map[string]interface{}{"collection": cfg.Storage.QdrantCollection})
		return idx, nil
	case "memory", "":
		c.Logger.Info(logModule, "using in-memory index", nil)
		return memindex.NewIndex(), nil
	default:
		return nil, fmt.Errorf("unsupported vector store: %s", cfg.Storage.VectorStore)
	}
}
