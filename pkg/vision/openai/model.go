package openai

import (
	"context"
	"fmt"

	"solemate-be/pkg/vision"
)

// ImageURLDescriber is satisfied by the OpenAI-compatible chat provider
type ImageURLDescriber interface {
	DescribeImageURL(ctx context.Context, model, instruction, imageURL string) (string, error)
}

// Model describes objects staged behind a URL (see s3stage)
type Model struct {
	provider  ImageURLDescriber
	modelName string
}

func NewModel(provider ImageURLDescriber, modelName string) *Model {
	return &Model{provider: provider, modelName: modelName}
}

func (m *Model) DescribeStaged(ctx context.Context, obj *vision.StagedObject, instruction string) (string, error) {
	if obj.URI == "" {
		return "", fmt.Errorf("staged object %s has no URL", obj.Name)
	}
	return m.provider.DescribeImageURL(ctx, m.modelName, instruction, obj.URI)
}
