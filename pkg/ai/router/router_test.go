package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"solemate-be/internal/pkg/logger"
	"solemate-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	calls   int
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newRouter(f *fakeLLM) *IntentRouter {
	return NewIntentRouter(f, "", logger.NewNopLogger(), time.Second)
}

func TestRouteFastPathSkipsLLM(t *testing.T) {
	for _, text := range []string{"hello", "Hi!", "  THANK YOU. ", "good morning", "ok"} {
		t.Run(text, func(t *testing.T) {
			f := &fakeLLM{}
			d := newRouter(f).Route(context.Background(), text, "")

			assert.Equal(t, Decision{IsInDomain: true, Intent: IntentChat, Source: SourceFastPath}, d)
			assert.Zero(t, f.calls)
		})
	}
}

func TestIsFastPath(t *testing.T) {
	assert.True(t, IsFastPath("Hey"))
	assert.False(t, IsFastPath("hello there friend"), "three tokens")
	assert.False(t, IsFastPath("hello shoes"), "not in set")
	assert.False(t, IsFastPath(""))
}

func TestRouteLLMPath(t *testing.T) {
	f := &fakeLLM{reply: "```json\n{\"is_in_domain\": true, \"intent\": \"SEARCH\"}\n```"}
	d := newRouter(f).Route(context.Background(), "red running shoes under $100", "")

	assert.Equal(t, 1, f.calls)
	assert.True(t, d.IsInDomain)
	assert.Equal(t, IntentSearch, d.Intent)
	assert.Equal(t, SourceLLM, d.Source)
	require.Len(t, f.prompts, 1)
	assert.Contains(t, f.prompts[0], "red running shoes under $100")
}

func TestRouteOutOfDomainForcesChat(t *testing.T) {
	f := &fakeLLM{reply: `{"is_in_domain": false, "intent": "SEARCH"}`}
	d := newRouter(f).Route(context.Background(), "", "A red sports car parked on a street.")

	assert.False(t, d.IsInDomain)
	assert.Equal(t, IntentChat, d.Intent)
	assert.Contains(t, f.prompts[0], "red sports car")
}

func TestRouteFallback(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		reply  string
		err    error
		intent Intent
	}{
		{"call fails on short text", "what's up", "", errors.New("timeout"), IntentChat},
		{"call fails on long text", "I need waterproof hiking boots", "", errors.New("timeout"), IntentSearch},
		{"bad json", "I need waterproof hiking boots", "I think SEARCH", nil, IntentSearch},
		{"invalid enum", "sup dude", `{"is_in_domain": true, "intent": "BUY"}`, nil, IntentChat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeLLM{reply: tt.reply, err: tt.err}
			d := newRouter(f).Route(context.Background(), tt.text, "")

			assert.Equal(t, 1, f.calls, "no retry")
			assert.True(t, d.IsInDomain)
			assert.Equal(t, tt.intent, d.Intent)
			assert.Equal(t, SourceFallback, d.Source)
		})
	}
}
