package embedding

import (
	"context"
	"fmt"
	"time"

	"solemate-be/internal/pkg/logger"
)

// Gateway turns query text or images into catalog-compatible vectors.
// It never returns an error: an empty vector means "embedding unavailable"
// and callers must skip the search step.
type Gateway struct {
	provider  EmbeddingProvider
	logger    logger.ILogger
	timeout   time.Duration
	dimension int
}

func NewGateway(provider EmbeddingProvider, log logger.ILogger, timeout time.Duration) *Gateway {
	return &Gateway{
		provider:  provider,
		logger:    log,
		timeout:   timeout,
		dimension: Dimension,
	}
}

// EmbedText embeds a user query under the query regime
func (g *Gateway) EmbedText(ctx context.Context, text string) []float32 {
	if text == "" {
		return []float32{}
	}
	return g.embed(ctx, Input{Text: text}, "text")
}

// EmbedImage embeds an uploaded image under the query regime
func (g *Gateway) EmbedImage(ctx context.Context, data []byte, mimeType string) []float32 {
	if len(data) == 0 {
		return []float32{}
	}
	return g.embed(ctx, Input{Image: data, MIMEType: mimeType}, "image")
}

func (g *Gateway) embed(ctx context.Context, input Input, kind string) []float32 {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	vector, err := g.provider.Embed(ctx, input, InputTypeQuery)
	if err == nil && len(vector) != g.dimension {
		err = fmt.Errorf("unexpected dimension %d, want %d", len(vector), g.dimension)
	}
	if err != nil {
		g.logger.Warn("EMBEDDING", "Embedding unavailable", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
		return []float32{}
	}

	g.logger.Debug("EMBEDDING", "Query embedded", map[string]interface{}{
		"kind":        kind,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return vector
}
