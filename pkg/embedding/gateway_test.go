package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"solemate-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	calls  []Input
	types  []InputType
	vector []float32
	err    error
}

func (f *fakeProvider) Embed(_ context.Context, input Input, inputType InputType) ([]float32, error) {
	f.calls = append(f.calls, input)
	f.types = append(f.types, inputType)
	return f.vector, f.err
}

func TestGatewayReturnsVectorUnderQueryRegime(t *testing.T) {
	p := &fakeProvider{vector: make([]float32, Dimension)}
	g := NewGateway(p, logger.NewNopLogger(), time.Second)

	vec := g.EmbedText(context.Background(), "trail runners")

	assert.Len(t, vec, Dimension)
	assert.Equal(t, []InputType{InputTypeQuery}, p.types)
}

func TestGatewayFailureReturnsEmptyVector(t *testing.T) {
	p := &fakeProvider{err: errors.New("upstream down")}
	g := NewGateway(p, logger.NewNopLogger(), time.Second)

	vec := g.EmbedImage(context.Background(), []byte{1, 2, 3}, "image/png")

	assert.NotNil(t, vec)
	assert.Empty(t, vec)
	assert.Len(t, p.calls, 1, "no retries")
}

func TestGatewayRejectsWrongDimension(t *testing.T) {
	p := &fakeProvider{vector: make([]float32, 768)}
	g := NewGateway(p, logger.NewNopLogger(), time.Second)

	assert.Empty(t, g.EmbedText(context.Background(), "loafers"))
}

func TestGatewaySkipsEmptyInput(t *testing.T) {
	p := &fakeProvider{vector: make([]float32, Dimension)}
	g := NewGateway(p, logger.NewNopLogger(), time.Second)

	assert.Empty(t, g.EmbedText(context.Background(), ""))
	assert.Empty(t, g.EmbedImage(context.Background(), nil, ""))
	assert.Empty(t, p.calls)
}
