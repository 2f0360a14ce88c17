package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"solemate-be/internal/pkg/logger"
	"solemate-be/pkg/ai/router"
	"solemate-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
)

// Runs the classifier against a local Ollama model. Set OLLAMA_MODEL to enable.
func TestRouterAgainstLocalModel(t *testing.T) {
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		t.Skip("Skipping integration test: OLLAMA_MODEL not set")
	}
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	r := router.NewIntentRouter(ollama.NewOllamaProvider(baseURL, model, 0), "", logger.NewNopLogger(), 2*time.Minute)
	ctx := context.Background()

	greeting := r.Route(ctx, "hello!", "")
	assert.Equal(t, router.SourceFastPath, greeting.Source)

	search := r.Route(ctx, "I need waterproof trail running shoes under $150", "")
	assert.True(t, search.IsInDomain)
	assert.Equal(t, router.IntentSearch, search.Intent)

	offTopic := r.Route(ctx, "how much is this?", "A stainless steel kitchen blender on a countertop.")
	assert.False(t, offTopic.IsInDomain)
	assert.Equal(t, router.IntentChat, offTopic.Intent)
}
