package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Search   SearchConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LLMLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	HistoryBackend     string // "memory" or "redis"
	SessionTTL         time.Duration
	TurnEventTopic     string
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	Voyage       string
	Jina         string
	GoogleGemini string
	OpenAI       string
	HuggingFace  string
}

type AIConfig struct {
	EmbeddingProvider string // "voyage", "jina", "gemini" or "ollama"
	EmbeddingModel    string
	LLMProvider       string // "gemini", "openai", "ollama" or "huggingface"
	LLMModel          string
	RouterModel       string
	VisionProvider    string // "gemini" or "openai"
	VisionModel       string
	OllamaBaseURL     string
	OpenAIBaseURL     string
	HuggingFaceURL    string
	Temperature       float64
	CallTimeout       time.Duration
}

type SearchConfig struct {
	TopK          int
	FeatureBudget int
}

type StorageConfig struct {
	Region          string
	Endpoint        string // optional, for S3-compatible stores
	AccessKeyID     string // empty uses the default AWS credential chain
	SecretAccessKey string
	ImageBucket     string
	ImagePrefix     string
	StagingBucket   string
	ImageCacheTTL   time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:     getEnv("LLM_LOG_FILE_PATH", "logs/llm.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			HistoryBackend:     getEnv("HISTORY_BACKEND", "memory"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", 0),
			TurnEventTopic:     getEnv("TURN_EVENT_TOPIC", "CHAT_TURN"),
			OtelEnabled:        getEnv("OTEL_ENABLED", "false") == "true",
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Voyage:       getEnv("VOYAGE_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "voyage"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.0-flash"),
			RouterModel:       getEnv("ROUTER_MODEL", ""),
			VisionProvider:    getEnv("VISION_PROVIDER", "gemini"),
			VisionModel:       getEnv("VISION_MODEL", "gemini-2.0-flash"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			HuggingFaceURL:    getEnv("HUGGINGFACE_BASE_URL", ""),
			Temperature:       getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			CallTimeout:       getEnvAsDuration("AI_CALL_TIMEOUT", 30*time.Second),
		},
		Search: SearchConfig{
			TopK:          getEnvAsInt("SEARCH_TOP_K", 15),
			FeatureBudget: getEnvAsInt("CONTEXT_FEATURE_BUDGET", 300),
		},
		Storage: StorageConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			ImageBucket:     getEnv("PRODUCT_IMAGE_BUCKET", ""),
			ImagePrefix:     getEnv("PRODUCT_IMAGE_PREFIX", "product-images"),
			StagingBucket:   getEnv("VISION_STAGING_BUCKET", ""),
			ImageCacheTTL:   getEnvAsDuration("IMAGE_CACHE_TTL", time.Hour),
		},
	}
}

// Validate checks the credentials needed by the selected providers.
// Callers must stop before serving any turn when it fails.
func (c *Config) Validate() error {
	if c.Database.Connection == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is required")
	}

	switch c.Ai.EmbeddingProvider {
	case "voyage":
		if c.Keys.Voyage == "" {
			return fmt.Errorf("VOYAGE_API_KEY is required for embedding provider voyage")
		}
	case "jina":
		if c.Keys.Jina == "" {
			return fmt.Errorf("JINA_API_KEY is required for embedding provider jina")
		}
	case "gemini":
		if c.Keys.GoogleGemini == "" {
			return fmt.Errorf("GOOGLE_GEMINI_API_KEY is required for embedding provider gemini")
		}
	case "ollama":
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.Ai.EmbeddingProvider)
	}

	for _, provider := range []string{c.Ai.LLMProvider, c.Ai.VisionProvider} {
		switch provider {
		case "gemini":
			if c.Keys.GoogleGemini == "" {
				return fmt.Errorf("GOOGLE_GEMINI_API_KEY is required for provider gemini")
			}
		case "openai":
			if c.Keys.OpenAI == "" {
				return fmt.Errorf("OPENAI_API_KEY is required for provider openai")
			}
		case "huggingface":
			if provider == c.Ai.VisionProvider {
				return fmt.Errorf("vision provider huggingface is not supported")
			}
			if c.Keys.HuggingFace == "" {
				return fmt.Errorf("HUGGINGFACE_API_KEY is required for provider huggingface")
			}
		case "ollama":
		default:
			return fmt.Errorf("unsupported provider: %s", provider)
		}
	}

	if c.Ai.VisionProvider == "ollama" {
		return fmt.Errorf("vision provider ollama is not supported")
	}
	if c.Ai.VisionProvider == "openai" && c.Storage.StagingBucket == "" {
		return fmt.Errorf("VISION_STAGING_BUCKET is required for vision provider openai")
	}

	if c.App.HistoryBackend != "memory" && c.App.HistoryBackend != "redis" {
		return fmt.Errorf("unsupported history backend: %s", c.App.HistoryBackend)
	}

	return nil
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
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
