package factory

import (
	"fmt"

	"solemate-be/pkg/llm"
	"solemate-be/pkg/llm/gemini"
	"solemate-be/pkg/llm/huggingface"
	"solemate-be/pkg/llm/ollama"
	"solemate-be/pkg/llm/openai"

	"google.golang.org/genai"
)

// Settings carries everything a provider constructor may need
type Settings struct {
	Provider           string
	Model              string
	Temperature        float64
	OllamaBaseURL      string
	OpenAIBaseURL      string
	OpenAIKey          string
	HuggingFaceKey     string
	HuggingFaceBaseURL string
	GeminiClient       *genai.Client
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(s.OllamaBaseURL, s.Model, s.Temperature), nil
	case "gemini":
		if s.GeminiClient == nil {
			return nil, fmt.Errorf("gemini provider requires a client")
		}
		return gemini.NewGeminiProvider(s.GeminiClient, s.Model, s.Temperature), nil
	case "openai":
		model, err := openai.NewModel(s.OpenAIKey, s.Model, s.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return openai.NewOpenAIProvider(model, s.Temperature), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(s.HuggingFaceKey, s.HuggingFaceBaseURL, s.Model, s.Temperature), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
