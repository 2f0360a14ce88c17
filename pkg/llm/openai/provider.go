package openai

import (
	"context"
	"fmt"

	"solemate-be/pkg/llm"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// OpenAIProvider implements llm.LLMProvider on any OpenAI-compatible endpoint via langchaingo
type OpenAIProvider struct {
	model       llms.Model
	temperature float64
}

var _ llm.LLMProvider = &OpenAIProvider{}

// NewModel creates the langchaingo chat model. baseURL may be empty for api.openai.com.
func NewModel(apiKey, modelName, baseURL string) (llms.Model, error) {
	opts := []lcopenai.Option{
		lcopenai.WithToken(apiKey),
		lcopenai.WithModel(modelName),
	}
	if baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}
	model, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai model: %w", err)
	}
	return model, nil
}

func NewOpenAIProvider(model llms.Model, temperature float64) *OpenAIProvider {
	return &OpenAIProvider{model: model, temperature: temperature}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(p.temperature, opts...)

	messages := make([]llms.MessageContent, 0, len(history))
	for _, msg := range history {
		messages = append(messages, llms.TextParts(messageType(msg.Role), msg.Content))
	}

	return p.generate(ctx, messages, options)
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// DescribeImageURL sends one instruction plus an image reference to a vision-capable model
func (p *OpenAIProvider) DescribeImageURL(ctx context.Context, model, instruction, imageURL string) (string, error) {
	messages := []llms.MessageContent{{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextContent{Text: instruction},
			llms.ImageURLContent{URL: imageURL},
		},
	}}
	return p.generate(ctx, messages, llm.ApplyOptions(p.temperature, llm.WithModel(model)))
}

func (p *OpenAIProvider) generate(ctx context.Context, messages []llms.MessageContent, options *llm.Options) (string, error) {
	callOpts := []llms.CallOption{llms.WithTemperature(options.Temperature)}
	if options.Model != "" {
		callOpts = append(callOpts, llms.WithModel(options.Model))
	}
	if options.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(options.MaxTokens))
	}
	if options.JSON {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	resp, err := p.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "assistant", "model":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
