package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"solemate-be/internal/dto"
	"solemate-be/internal/mapper"
	"solemate-be/internal/pkg/logger"
	"solemate-be/pkg/ai/pipeline"
	"solemate-be/pkg/events"
	"solemate-be/pkg/rag/response"
	"solemate-be/pkg/store"

	"github.com/google/uuid"
)

// ErrInvalidImage is returned for uploads that are not decodable images
var ErrInvalidImage = errors.New("invalid image upload")

const maxImageBytes = 8 * 1024 * 1024

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest, image []byte, reporter pipeline.Reporter) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error)
	ResetSession(ctx context.Context, sessionId string) error
	Stats() *dto.ChatStatsResponse
}

// TurnExecutor runs one turn through the pipeline
type TurnExecutor interface {
	Execute(ctx context.Context, in pipeline.TurnInput, reporter pipeline.Reporter) (*pipeline.TurnOutput, error)
}

// SessionStore is the part of the session manager the service reads
type SessionStore interface {
	Transcript(ctx context.Context, sessionID string) ([]store.Turn, error)
	Reset(ctx context.Context, sessionID string) error
}

type chatbotService struct {
	pipeline  TurnExecutor
	sessions  SessionStore
	publisher IPublisherService
	stats     IStatsService
	mapper    *mapper.ChatMapper
	logger    logger.ILogger
}

func NewChatbotService(
	turnPipeline TurnExecutor,
	sessions SessionStore,
	publisher IPublisherService,
	stats IStatsService,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		pipeline:  turnPipeline,
		sessions:  sessions,
		publisher: publisher,
		stats:     stats,
		mapper:    mapper.NewChatMapper(),
		logger:    log,
	}
}

func (c *chatbotService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	sessionId := uuid.NewString()
	transcript, err := c.sessions.Transcript(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		SessionId: sessionId,
		Greeting:  c.mapper.TurnToDTO(transcript[0]),
	}, nil
}

// SendChat runs a turn. image overrides request.ImageBase64 when both are set.
func (c *chatbotService) SendChat(ctx context.Context, request *dto.SendChatRequest, image []byte, reporter pipeline.Reporter) (*dto.SendChatResponse, error) {
	mimeType := request.ImageMime
	if len(image) == 0 && request.ImageBase64 != "" {
		decoded, detected, err := DecodeImage(request.ImageBase64)
		if err != nil {
			return nil, err
		}
		image = decoded
		if mimeType == "" {
			mimeType = detected
		}
	}
	if len(image) > 0 {
		if len(image) > maxImageBytes {
			return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidImage, maxImageBytes)
		}
		if mimeType == "" {
			mimeType = http.DetectContentType(image)
		}
		if !strings.HasPrefix(mimeType, "image/") {
			return nil, fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, mimeType)
		}
	}

	in := pipeline.TurnInput{
		SessionID: request.SessionId,
		Text:      request.Chat,
		Image:     image,
		ImageMIME: mimeType,
	}

	out, err := c.pipeline.Execute(ctx, in, reporter)
	if err != nil {
		if errors.Is(err, response.ErrGeneration) || errors.Is(err, response.ErrContract) {
			c.publish(ctx, events.TurnFailed(request.SessionId, err.Error()))
		}
		return nil, err
	}

	result := out.Result
	var products []store.Product
	if result.IsRecommendation() {
		products = result.Products
	}

	c.publish(ctx, events.TurnCompleted(
		request.SessionId,
		string(out.Decision.Intent),
		out.Decision.IsInDomain,
		out.Searched,
		len(out.Products),
		string(result.Classification),
		out.Duration,
	))

	return &dto.SendChatResponse{
		SessionId:      request.SessionId,
		Classification: string(result.Classification),
		Decision: dto.RouterDecisionDTO{
			IsInDomain: out.Decision.IsInDomain,
			Intent:     string(out.Decision.Intent),
			Source:     out.Decision.Source,
		},
		ImageDescription: out.ImageDescription,
		Sent:             c.mapper.TurnToDTO(store.UserTurn(in.DisplayText())),
		Reply:            c.mapper.TurnToDTO(store.AssistantTurn(result.ResponseText, result.Thought, products)),
		DurationMs:       out.Duration.Milliseconds(),
	}, nil
}

func (c *chatbotService) GetHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error) {
	transcript, err := c.sessions.Transcript(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return &dto.GetChatHistoryResponse{
		SessionId: sessionId,
		Turns:     c.mapper.TurnsToDTO(transcript),
	}, nil
}

func (c *chatbotService) ResetSession(ctx context.Context, sessionId string) error {
	if err := c.sessions.Reset(ctx, sessionId); err != nil {
		return err
	}
	c.publish(ctx, events.SessionReset(sessionId))
	return nil
}

func (c *chatbotService) Stats() *dto.ChatStatsResponse {
	return c.stats.Snapshot()
}

// publish never fails the turn
func (c *chatbotService) publish(ctx context.Context, event events.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

// DecodeImage accepts raw base64 or a data URL and returns the bytes with the
// declared or sniffed content type
func DecodeImage(encoded string) ([]byte, string, error) {
	encoded = strings.TrimSpace(encoded)
	declared := ""
	if strings.HasPrefix(encoded, "data:") {
		header, payload, ok := strings.Cut(encoded, ",")
		if !ok {
			return nil, "", fmt.Errorf("%w: malformed data url", ErrInvalidImage)
		}
		declared = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		encoded = payload
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if declared == "" {
		declared = http.DetectContentType(data)
	}
	return data, declared, nil
}
