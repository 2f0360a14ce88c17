package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SEARCH_TOP_K", "")
	t.Setenv("AI_CALL_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, 15, cfg.Search.TopK)
	assert.Equal(t, 300, cfg.Search.FeatureBudget)
	assert.Equal(t, 30*time.Second, cfg.Ai.CallTimeout)
	assert.Equal(t, time.Hour, cfg.Storage.ImageCacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SEARCH_TOP_K", "6")
	t.Setenv("AI_CALL_TIMEOUT", "5s")
	t.Setenv("LLM_TEMPERATURE", "0.2")

	cfg := Load()

	assert.Equal(t, 6, cfg.Search.TopK)
	assert.Equal(t, 5*time.Second, cfg.Ai.CallTimeout)
	assert.InDelta(t, 0.2, cfg.Ai.Temperature, 1e-9)
}

func validConfig() *Config {
	return &Config{
		App:      AppConfig{HistoryBackend: "memory"},
		Database: DatabaseConfig{Connection: "postgres://localhost/catalog"},
		Keys:     APIKeys{Voyage: "v", GoogleGemini: "g"},
		Ai: AIConfig{
			EmbeddingProvider: "voyage",
			LLMProvider:       "gemini",
			VisionProvider:    "gemini",
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing dsn", func(c *Config) { c.Database.Connection = "" }},
		{"missing voyage key", func(c *Config) { c.Keys.Voyage = "" }},
		{"missing gemini key", func(c *Config) { c.Keys.GoogleGemini = "" }},
		{"unknown embedding provider", func(c *Config) { c.Ai.EmbeddingProvider = "word2vec" }},
		{"openai vision without staging bucket", func(c *Config) {
			c.Ai.VisionProvider = "openai"
			c.Keys.OpenAI = "o"
		}},
		{"ollama vision", func(c *Config) { c.Ai.VisionProvider = "ollama" }},
		{"huggingface without key", func(c *Config) { c.Ai.LLMProvider = "huggingface" }},
		{"huggingface vision", func(c *Config) {
			c.Ai.VisionProvider = "huggingface"
			c.Keys.HuggingFace = "hf"
		}},
		{"unknown history backend", func(c *Config) { c.App.HistoryBackend = "sqlite" }},
	}

	hf := validConfig()
	hf.Ai.LLMProvider = "huggingface"
	hf.Keys.HuggingFace = "hf"
	require.NoError(t, hf.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
