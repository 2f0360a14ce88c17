package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"solemate-be/pkg/embedding"
)

// mxbai-embed-large is asymmetric: queries carry an instruction prefix, documents do not
const queryPrefix = "Represent this sentence for searching relevant passages: "

// OllamaProvider embeds text with a local Ollama model. Images are not supported,
// so image turns fall back to the no-search path.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "mxbai-embed-large"
	}
	return &OllamaProvider{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *OllamaProvider) Embed(ctx context.Context, input embedding.Input, inputType embedding.InputType) ([]float32, error) {
	if input.IsImage() {
		return nil, embedding.ErrImageUnsupported
	}

	text := input.Text
	if inputType == embedding.InputTypeQuery {
		text = queryPrefix + text
	}

	jsonBody, err := json.Marshal(embedRequest{Model: p.model, Input: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embed", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embedding error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed embedResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("ollama embedding error: %s", parsed.Error)
	}
	if len(parsed.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embeddings from ollama")
	}

	return embedding.Normalize(parsed.Embeddings[0]), nil
}
