package factory

import (
	"fmt"

	"solemate-be/pkg/embedding"
	"solemate-be/pkg/embedding/gemini"
	"solemate-be/pkg/embedding/jina"
	"solemate-be/pkg/embedding/ollama"
	"solemate-be/pkg/embedding/voyage"

	"google.golang.org/genai"
)

type Settings struct {
	Provider      string
	Model         string
	VoyageKey     string
	JinaKey       string
	OllamaBaseURL string
	GeminiClient  *genai.Client
}

// NewEmbeddingProvider selects the backend. Voyage and Jina embed text and
// images; Gemini and Ollama are text only.
func NewEmbeddingProvider(s Settings) (embedding.EmbeddingProvider, error) {
	switch s.Provider {
	case "voyage":
		return voyage.NewVoyageProvider(s.VoyageKey, s.Model), nil
	case "jina":
		return jina.NewJinaProvider(s.JinaKey, s.Model), nil
	case "gemini":
		if s.GeminiClient == nil {
			return nil, fmt.Errorf("gemini embedding provider requires a client")
		}
		return gemini.NewGeminiProvider(s.GeminiClient, s.Model), nil
	case "ollama":
		return ollama.NewOllamaProvider(s.OllamaBaseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", s.Provider)
	}
}
