package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Security SecurityConfig
	Session  SessionConfig
	Upload   UploadConfig
	Ai       AIConfig
	Storage  StorageConfig
	Otel     OtelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	ProjectName        string
	APIPrefix          string
	Debug              bool
	LogFilePath        string
	CorsAllowedOrigins string
}

// IsProduction reports whether GO_ENV is production.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

type SecurityConfig struct {
	SecretKey          string
	APIKeyEnabled      bool
	JWTEnabled         bool
	AccessTokenExpires time.Duration
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

type UploadConfig struct {
	MaxSize           int64
	AllowedExtensions []string
	ChunkSize         int
	ChunkOverlap      int
	EmbedConcurrency  int
	Timeout           time.Duration
}

type AIConfig struct {
	LLMProvider         string // "gemini", "claude", "ollama" or "openai"
	ChatModel           string
	EmbeddingProvider   string // "gemini", "ollama" or "hash"
	EmbeddingModel      string
	EmbeddingDimension  int
	GoogleAPIKey        string
	AnthropicAPIKey     string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OllamaBaseURL       string
	EmbedRequestsPerSec float64
	LLMTimeout          time.Duration
	StoreTimeout        time.Duration
}

type StorageConfig struct {
	VectorStore         string // "memory", "pgvector" or "qdrant"
	DBConnection        string
	QdrantURL           string
	QdrantAPIKey        string
	QdrantCollection    string
	RedisURL            string // empty keeps registry and checkpoints in process
	CacheTTL            time.Duration
	HistoryTokenLimit   int
	HistoryMessageLimit int
}

type OtelConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			ProjectName:        getEnv("PROJECT_NAME", "Document Intelligence API"),
			APIPrefix:          getEnv("API_PREFIX", "/api/v1"),
			Debug:              getEnvAsBool("DEBUG", false),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Security: SecurityConfig{
			SecretKey:          getEnv("SECRET_KEY", ""),
			APIKeyEnabled:      getEnvAsBool("API_KEY_ENABLED", false),
			JWTEnabled:         getEnvAsBool("JWT_ENABLED", false),
			AccessTokenExpires: time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 15)) * time.Minute,
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "chat_id"),
			TTL:        getEnvAsDuration("SESSION_TTL", 3*time.Hour),
		},
		Upload: UploadConfig{
			MaxSize:           int64(getEnvAsInt("MAX_UPLOAD_SIZE", 10*1024*1024)),
			AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", []string{"pdf"}),
			ChunkSize:         getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:      getEnvAsInt("CHUNK_OVERLAP", 200),
			EmbedConcurrency:  getEnvAsInt("EMBED_CONCURRENCY", 4),
			Timeout:           getEnvAsDuration("UPLOAD_TIMEOUT", 5*time.Minute),
		},
		Ai: AIConfig{
			LLMProvider:         getEnv("LLM_PROVIDER", "gemini"),
			ChatModel:           getEnv("CHAT_MODEL", ""),
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:      getEnv("EMBEDDING_MODEL", ""),
			EmbeddingDimension:  getEnvAsInt("EMBEDDING_DIMENSION", 768),
			GoogleAPIKey:        getEnv("GOOGLE_API_KEY", ""),
			AnthropicAPIKey:     getEnv("ANTHROPIC_API_KEY", ""),
			OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbedRequestsPerSec: getEnvAsFloat("EMBED_REQUESTS_PER_SECOND", 5),
			LLMTimeout:          getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			StoreTimeout:        getEnvAsDuration("STORE_TIMEOUT", 15*time.Second),
		},
		Storage: StorageConfig{
			VectorStore:         getEnv("VECTOR_STORE", "memory"),
			DBConnection:        getEnv("DB_CONNECTION_STRING", ""),
			QdrantURL:           getEnv("QDRANT_URL", "localhost:6334"),
			QdrantAPIKey:        getEnv("QDRANT_API_KEY", ""),
			QdrantCollection:    getEnv("QDRANT_COLLECTION", "documents"),
			RedisURL:            getEnv("REDIS_URL", ""),
			CacheTTL:            getEnvAsDuration("CACHE_TTL", time.Hour),
			HistoryTokenLimit:   getEnvAsInt("HISTORY_TOKEN_LIMIT", 6000),
			HistoryMessageLimit: getEnvAsInt("HISTORY_MESSAGE_LIMIT", 40),
		},
		Otel: OtelConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, strings.TrimPrefix(p, "."))
		}
	}
	return out
}
