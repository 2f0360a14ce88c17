package embedding

import (
	"context"
	"errors"
	"math"
)

// Dimension is the vector size agreed with the catalog index (products.vector_text)
const Dimension = 1024

// InputType selects the asymmetric embedding regime
type InputType string

const (
	InputTypeQuery    InputType = "query"
	InputTypeDocument InputType = "document"
)

// Input is either a text or an image payload
type Input struct {
	Text     string
	Image    []byte
	MIMEType string
}

// IsImage reports whether the input carries image bytes
func (in Input) IsImage() bool {
	return len(in.Image) > 0
}

// EmbeddingProvider defines the interface for generating multimodal embeddings
type EmbeddingProvider interface {
	Embed(ctx context.Context, input Input, inputType InputType) ([]float32, error)
}

// ErrImageUnsupported is returned by text-only providers for image input
var ErrImageUnsupported = errors.New("provider cannot embed images")

// Normalize scales vec to unit length. Truncated Gemini outputs and most
// local models are not unit vectors.
func Normalize(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
