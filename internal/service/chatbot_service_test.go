package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"solemate-be/internal/dto"
	"solemate-be/internal/pkg/logger"
	"solemate-be/internal/repository/memory"
	"solemate-be/pkg/ai/pipeline"
	"solemate-be/pkg/ai/router"
	"solemate-be/pkg/events"
	"solemate-be/pkg/rag/response"
	"solemate-be/pkg/rag/session"
	"solemate-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	in  pipeline.TurnInput
	out *pipeline.TurnOutput
	err error
}

func (f *fakeExecutor) Execute(_ context.Context, in pipeline.TurnInput, _ pipeline.Reporter) (*pipeline.TurnOutput, error) {
	f.in = in
	return f.out, f.err
}

type fakePublisher struct {
	published []events.Event
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return f.err
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

const sessionID = "0b7e2c36-1f1e-4c5e-9e55-0a6f7f0d8a11"

func newService(exec *fakeExecutor, pub *fakePublisher) (IChatbotService, *session.Manager) {
	sessions := session.NewManager(memory.NewHistoryRepository(0))
	stats := NewStatsService(nil, logger.NewNopLogger())
	return NewChatbotService(exec, sessions, pub, stats, logger.NewNopLogger()), sessions
}

func recommendationOutput() *pipeline.TurnOutput {
	products := []store.Product{{Title: "Cloudmonster", Brand: "On", ImageFilename: "cm.jpg"}}
	return &pipeline.TurnOutput{
		Decision: router.Decision{IsInDomain: true, Intent: router.IntentSearch, Source: router.SourceLLM},
		Searched: true,
		Products: products,
		Result: &response.Result{
			Classification: response.ClassificationRecommendation,
			Thought:        "cushioned road shoe",
			ResponseText:   "The Cloudmonster fits.",
			Products:       products,
		},
		Duration: 1200 * time.Millisecond,
	}
}

func TestCreateSessionReturnsGreeting(t *testing.T) {
	svc, _ := newService(&fakeExecutor{}, &fakePublisher{})

	res, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.SessionId, 36)
	assert.Equal(t, store.GreetingMessage, res.Greeting.Content)
	assert.Equal(t, store.RoleAssistant, res.Greeting.Role)
}

func TestSendChatRecommendation(t *testing.T) {
	exec := &fakeExecutor{out: recommendationOutput()}
	pub := &fakePublisher{}
	svc, _ := newService(exec, pub)

	res, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SessionId: sessionID, Chat: "road running shoes"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "recommendation", res.Classification)
	assert.Equal(t, "SEARCH", res.Decision.Intent)
	assert.Equal(t, "road running shoes", res.Sent.Content)
	require.Len(t, res.Reply.Products, 1)
	assert.Equal(t, "/api/product/v1/image/cm.jpg", res.Reply.Products[0].ImageUrl)
	assert.Equal(t, int64(1200), res.DurationMs)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeTurnCompleted, pub.published[0].EventType())
	assert.Equal(t, 1, pub.published[0].Payload()["hits"])
}

func TestSendChatChatResultHasNoProducts(t *testing.T) {
	out := recommendationOutput()
	out.Result.Classification = response.ClassificationChat
	svc, _ := newService(&fakeExecutor{out: out}, &fakePublisher{})

	res, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SessionId: sessionID, Chat: "thanks"}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Reply.Products)
}

func TestSendChatFailurePublishesTurnFailed(t *testing.T) {
	exec := &fakeExecutor{err: fmt.Errorf("%w: timeout", response.ErrGeneration)}
	pub := &fakePublisher{}
	svc, _ := newService(exec, pub)

	_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SessionId: sessionID, Chat: "boots"}, nil, nil)
	assert.ErrorIs(t, err, response.ErrGeneration)
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeTurnFailed, pub.published[0].EventType())
}

func TestSendChatPublishErrorDoesNotFailTurn(t *testing.T) {
	svc, _ := newService(&fakeExecutor{out: recommendationOutput()}, &fakePublisher{err: errors.New("bus closed")})

	_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SessionId: sessionID, Chat: "boots"}, nil, nil)
	assert.NoError(t, err)
}

func TestSendChatDecodesBase64Image(t *testing.T) {
	exec := &fakeExecutor{out: recommendationOutput()}
	svc, _ := newService(exec, &fakePublisher{})

	req := &dto.SendChatRequest{
		SessionId:   sessionID,
		ImageBase64: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader),
	}
	res, err := svc.SendChat(context.Background(), req, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, pngHeader, exec.in.Image)
	assert.Equal(t, "image/png", exec.in.ImageMIME)
	assert.Equal(t, store.ImageUploadedContent, res.Sent.Content)
}

func TestSendChatRejectsNonImage(t *testing.T) {
	exec := &fakeExecutor{}
	svc, _ := newService(exec, &fakePublisher{})

	_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SessionId: sessionID}, []byte("plain text body"), nil)
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Empty(t, exec.in.SessionID, "pipeline not called")
}

func TestGetHistoryAndReset(t *testing.T) {
	pub := &fakePublisher{}
	svc, sessions := newService(&fakeExecutor{}, pub)
	ctx := context.Background()

	require.NoError(t, sessions.Append(ctx, sessionID, store.UserTurn("hi"), store.AssistantTurn("Hello!", "", nil)))

	history, err := svc.GetHistory(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, history.Turns, 3)
	assert.Equal(t, store.GreetingMessage, history.Turns[0].Content)
	assert.Equal(t, "hi", history.Turns[1].Content)

	require.NoError(t, svc.ResetSession(ctx, sessionID))
	history, err = svc.GetHistory(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, history.Turns, 1)
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeSessionReset, pub.published[0].EventType())
}

func TestDecodeImage(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString(pngHeader)

	data, mime, err := DecodeImage(raw)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", mime)

	_, mime, err = DecodeImage("data:image/webp;base64," + raw)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", mime)

	_, _, err = DecodeImage("%%%")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, _, err = DecodeImage("data:image/png;base64")
	assert.ErrorIs(t, err, ErrInvalidImage)
}
