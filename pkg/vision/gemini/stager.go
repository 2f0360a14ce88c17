package gemini

import (
	"context"
	"fmt"
	"time"

	"solemate-be/pkg/llm/gemini"
	"solemate-be/pkg/vision"

	"google.golang.org/genai"
)

// FileStager stages images through the Gemini Files API
type FileStager struct {
	client       *genai.Client
	pollInterval time.Duration
	maxPolls     int
}

func NewFileStager(client *genai.Client) *FileStager {
	return &FileStager{client: client, pollInterval: 500 * time.Millisecond, maxPolls: 10}
}

// Factory returns a vision.StagerFactory sharing one client across calls
func Factory(client *genai.Client) vision.StagerFactory {
	return func(ctx context.Context) (vision.Stager, error) {
		if client == nil {
			return nil, fmt.Errorf("gemini client not configured")
		}
		return NewFileStager(client), nil
	}
}

func (s *FileStager) Stage(ctx context.Context, localPath, name, mimeType string) (*vision.StagedObject, error) {
	file, err := s.client.Files.UploadFromPath(ctx, localPath, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: name,
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	// Images usually become active at once; poll briefly otherwise
	for i := 0; i < s.maxPolls && file.State == genai.FileStateProcessing; i++ {
		select {
		case <-ctx.Done():
			return toStaged(file), nil
		case <-time.After(s.pollInterval):
		}
		refreshed, err := s.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			break
		}
		file = refreshed
	}

	return toStaged(file), nil
}

func (s *FileStager) Release(ctx context.Context, obj *vision.StagedObject) error {
	if obj == nil || obj.Name == "" {
		return nil
	}
	_, err := s.client.Files.Delete(ctx, obj.Name, nil)
	return err
}

// Close is a no-op: the shared genai client has no per-call connection
func (s *FileStager) Close() error {
	return nil
}

func toStaged(file *genai.File) *vision.StagedObject {
	return &vision.StagedObject{
		Name:     file.Name,
		URI:      file.URI,
		MIMEType: file.MIMEType,
		Status:   statusOf(file.State),
	}
}

func statusOf(state genai.FileState) string {
	if state == genai.FileStateActive {
		return vision.StatusActive
	}
	return string(state)
}

// Model describes staged files with a Gemini vision model
type Model struct {
	client    *genai.Client
	modelName string
}

func NewModel(client *genai.Client, modelName string) *Model {
	return &Model{client: client, modelName: modelName}
}

func (m *Model) DescribeStaged(ctx context.Context, obj *vision.StagedObject, instruction string) (string, error) {
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromURI(obj.URI, obj.MIMEType),
			genai.NewPartFromText(instruction),
		},
	}}

	resp, err := m.client.Models.GenerateContent(ctx, m.modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini vision request failed: %w", err)
	}
	return gemini.ResponseText(resp)
}
