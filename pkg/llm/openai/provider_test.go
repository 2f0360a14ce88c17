package openai

import (
	"context"
	"errors"
	"testing"

	"solemate-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	reply    string
	err      error
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.opts)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestChatMapsRolesAndOptions(t *testing.T) {
	model := &fakeModel{reply: "done"}
	p := NewOpenAIProvider(model, 0.7)

	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
	}, llm.WithJSON(), llm.WithModel("gpt-4o-mini"))

	require.NoError(t, err)
	assert.Equal(t, "done", out)
	require.Len(t, model.messages, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, model.messages[2].Role)
	assert.True(t, model.opts.JSONMode)
	assert.Equal(t, "gpt-4o-mini", model.opts.Model)
	assert.InDelta(t, 0.7, model.opts.Temperature, 1e-9)
}

func TestDescribeImageURL(t *testing.T) {
	model := &fakeModel{reply: "a red sneaker"}
	p := NewOpenAIProvider(model, 0.2)

	out, err := p.DescribeImageURL(context.Background(), "gpt-4o", "describe", "https://bucket/img.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a red sneaker", out)
	require.Len(t, model.messages, 1)
	require.Len(t, model.messages[0].Parts, 2)
	assert.Equal(t, llms.ImageURLContent{URL: "https://bucket/img.jpg"}, model.messages[0].Parts[1])
}

func TestChatError(t *testing.T) {
	p := NewOpenAIProvider(&fakeModel{err: errors.New("rate limited")}, 0.7)
	_, err := p.Generate(context.Background(), "hi")
	assert.Error(t, err)
}
