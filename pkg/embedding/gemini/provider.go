package gemini

import (
	"context"
	"fmt"

	"solemate-be/pkg/embedding"

	"google.golang.org/genai"
)

const defaultModel = "gemini-embedding-001"

// ContentEmbedder is the slice of genai.Models the provider calls
type ContentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GeminiProvider embeds text with a Gemini embedding model truncated to the
// catalog dimension. Text only.
type GeminiProvider struct {
	models ContentEmbedder
	model  string
}

func NewGeminiProvider(client *genai.Client, model string) *GeminiProvider {
	return newProvider(client.Models, model)
}

func newProvider(models ContentEmbedder, model string) *GeminiProvider {
	if model == "" {
		model = defaultModel
	}
	return &GeminiProvider{models: models, model: model}
}

func (p *GeminiProvider) Embed(ctx context.Context, input embedding.Input, inputType embedding.InputType) ([]float32, error) {
	if input.IsImage() {
		return nil, embedding.ErrImageUnsupported
	}

	taskType := "RETRIEVAL_QUERY"
	if inputType == embedding.InputTypeDocument {
		taskType = "RETRIEVAL_DOCUMENT"
	}
	dims := int32(embedding.Dimension)

	resp, err := p.models.EmbedContent(ctx, p.model, genai.Text(input.Text), &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("empty embeddings from gemini")
	}

	return embedding.Normalize(resp.Embeddings[0].Values), nil
}
