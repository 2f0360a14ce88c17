package ollama

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"solemate-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedQueryPrefixAndNormalization(t *testing.T) {
	var got embedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"embeddings":[[3,4]]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	vec, err := p.Embed(context.Background(), embedding.Input{Text: "wide toe box sneakers"}, embedding.InputTypeQuery)

	require.NoError(t, err)
	assert.Equal(t, "mxbai-embed-large", got.Model)
	assert.True(t, strings.HasPrefix(got.Input, queryPrefix))
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)
	assert.InDelta(t, 1.0, math.Hypot(float64(vec[0]), float64(vec[1])), 1e-6)
}

func TestEmbedDocumentHasNoPrefix(t *testing.T) {
	var got embedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"embeddings":[[1,0]]}`))
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "").Embed(context.Background(), embedding.Input{Text: "Gel-Nimbus"}, embedding.InputTypeDocument)
	require.NoError(t, err)
	assert.Equal(t, "Gel-Nimbus", got.Input)
}

func TestEmbedRejectsImages(t *testing.T) {
	_, err := NewOllamaProvider("http://unused", "").Embed(context.Background(), embedding.Input{Image: []byte{1}}, embedding.InputTypeQuery)
	assert.ErrorIs(t, err, embedding.ErrImageUnsupported)
}
