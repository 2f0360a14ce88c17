package voyage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"solemate-be/pkg/embedding"
)

const (
	defaultBaseURL = "https://api.voyageai.com/v1/multimodalembeddings"
	defaultModel   = "voyage-multimodal-3"
)

// VoyageProvider calls the Voyage multimodal embeddings endpoint
type VoyageProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type contentPart struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

type multimodalInput struct {
	Content []contentPart `json:"content"`
}

type embeddingRequest struct {
	Inputs    []multimodalInput `json:"inputs"`
	Model     string            `json:"model"`
	InputType string            `json:"input_type,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Detail string `json:"detail,omitempty"`
}

func NewVoyageProvider(apiKey, model string) *VoyageProvider {
	if model == "" {
		model = defaultModel
	}
	return &VoyageProvider{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURL points the provider at another endpoint (tests, proxies)
func (p *VoyageProvider) WithBaseURL(baseURL string) *VoyageProvider {
	p.baseURL = baseURL
	return p
}

func (p *VoyageProvider) Embed(ctx context.Context, input embedding.Input, inputType embedding.InputType) ([]float32, error) {
	var part contentPart
	if input.IsImage() {
		mimeType := input.MIMEType
		if mimeType == "" {
			mimeType = http.DetectContentType(input.Image)
		}
		part = contentPart{
			Type:        "image_base64",
			ImageBase64: fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(input.Image)),
		}
	} else {
		part = contentPart{Type: "text", Text: input.Text}
	}

	reqBody := embeddingRequest{
		Inputs:    []multimodalInput{{Content: []contentPart{part}}},
		Model:     p.model,
		InputType: string(inputType),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voyage api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("empty embeddings from voyage api")
	}

	return parsed.Data[0].Embedding, nil
}
