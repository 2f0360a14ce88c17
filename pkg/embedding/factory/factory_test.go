package factory

import (
	"testing"

	"solemate-be/pkg/embedding/jina"
	"solemate-be/pkg/embedding/ollama"
	"solemate-be/pkg/embedding/voyage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingProvider(t *testing.T) {
	p, err := NewEmbeddingProvider(Settings{Provider: "voyage", VoyageKey: "v"})
	require.NoError(t, err)
	assert.IsType(t, &voyage.VoyageProvider{}, p)

	p, err = NewEmbeddingProvider(Settings{Provider: "jina", JinaKey: "j"})
	require.NoError(t, err)
	assert.IsType(t, &jina.JinaProvider{}, p)

	p, err = NewEmbeddingProvider(Settings{Provider: "ollama"})
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, p)

	_, err = NewEmbeddingProvider(Settings{Provider: "gemini"})
	assert.Error(t, err, "gemini without a client")

	_, err = NewEmbeddingProvider(Settings{Provider: "word2vec"})
	assert.Error(t, err)
}
