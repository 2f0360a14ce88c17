package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"solemate-be/internal/pkg/logger"
	"solemate-be/pkg/ai/router"
	ragcontext "solemate-be/pkg/rag/context"
	"solemate-be/pkg/rag/response"
	"solemate-be/pkg/store"
	"solemate-be/pkg/vision"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrEmptyTurn = errors.New("turn has neither text nor image")

var tracer = otel.Tracer("solemate/pipeline")

type Embedder interface {
	EmbedText(ctx context.Context, text string) []float32
	EmbedImage(ctx context.Context, data []byte, mimeType string) []float32
}

type Searcher interface {
	Search(ctx context.Context, vector []float32, limit int) ([]store.Product, error)
}

type Describer interface {
	Describe(ctx context.Context, data []byte, mimeType string) string
}

type Router interface {
	Route(ctx context.Context, text, imageDescription string) router.Decision
}

type Drafter interface {
	Generate(ctx context.Context, in response.Input) (*response.Result, error)
}

type SessionLocker interface {
	Lock(ctx context.Context, sessionID string) (func(), error)
}

type Config struct {
	SearchLimit   int
	FeatureBudget int
}

type TurnInput struct {
	SessionID string
	Text      string
	Image     []byte
	ImageMIME string
}

// DisplayText is what the transcript shows for the user turn
func (in TurnInput) DisplayText() string {
	if strings.TrimSpace(in.Text) == "" && len(in.Image) > 0 {
		return store.ImageUploadedContent
	}
	return in.Text
}

type TurnOutput struct {
	Decision         router.Decision
	ImageDescription string
	Searched         bool
	Products         []store.Product
	Context          string
	Result           *response.Result
	Duration         time.Duration
}

// TurnPipeline runs one user turn end to end. Turns of the same session are
// serialized; different sessions run concurrently.
type TurnPipeline struct {
	embedder  Embedder
	searcher  Searcher
	describer Describer
	router    Router
	drafter   Drafter
	sessions  SessionLocker
	cfg       Config
	logger    logger.ILogger
}

func NewTurnPipeline(
	embedder Embedder,
	searcher Searcher,
	describer Describer,
	router Router,
	drafter Drafter,
	sessions SessionLocker,
	cfg Config,
	log logger.ILogger,
) *TurnPipeline {
	return &TurnPipeline{
		embedder:  embedder,
		searcher:  searcher,
		describer: describer,
		router:    router,
		drafter:   drafter,
		sessions:  sessions,
		cfg:       cfg,
		logger:    log,
	}
}

// Execute returns an error only when drafting fails (response.ErrGeneration,
// response.ErrContract) or the turn is empty. Every earlier stage degrades.
func (p *TurnPipeline) Execute(ctx context.Context, in TurnInput, reporter Reporter) (*TurnOutput, error) {
	if reporter == nil {
		reporter = NopReporter
	}
	if strings.TrimSpace(in.Text) == "" && len(in.Image) == 0 {
		return nil, ErrEmptyTurn
	}

	unlock, err := p.sessions.Lock(ctx, in.SessionID)
	if err != nil {
		p.logger.Error("PIPELINE", "Session lock unavailable", map[string]interface{}{
			"session_id": in.SessionID,
			"error":      err.Error(),
		})
		return nil, err
	}
	defer unlock()

	ctx, span := tracer.Start(ctx, "pipeline.turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", in.SessionID),
		attribute.Bool("turn.has_image", len(in.Image) > 0),
	)

	start := time.Now()
	out := &TurnOutput{Context: ragcontext.EmptyContext}

	if len(in.Image) > 0 {
		reporter.Report(StageVision, "Analyzing image")
		out.ImageDescription = p.describe(ctx, in)
	}

	reporter.Report(StageRouting, "Understanding your request")
	out.Decision = p.route(ctx, in.Text, out.ImageDescription)
	span.SetAttributes(
		attribute.String("router.intent", string(out.Decision.Intent)),
		attribute.Bool("router.in_domain", out.Decision.IsInDomain),
		attribute.String("router.source", out.Decision.Source),
	)

	if out.Decision.Intent == router.IntentSearch && out.Decision.IsInDomain {
		reporter.Report(StageSearching, "Searching the catalog")
		out.Products, out.Searched = p.search(ctx, in, out.ImageDescription)
		out.Context = ragcontext.Assemble(out.Products, p.cfg.FeatureBudget)
	}

	reporter.Report(StageDrafting, "Drafting response")
	result, err := p.draft(ctx, in, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "drafting failed")
		reporter.Report(StageError, err.Error())
		p.logger.Error("PIPELINE", "Turn failed", map[string]interface{}{
			"session_id": in.SessionID,
			"error":      err.Error(),
		})
		return nil, err
	}

	out.Result = result
	out.Duration = time.Since(start)
	reporter.Report(StageDone, string(result.Classification))

	p.logger.Info("PIPELINE", "Turn complete", map[string]interface{}{
		"session_id":     in.SessionID,
		"intent":         string(out.Decision.Intent),
		"in_domain":      out.Decision.IsInDomain,
		"searched":       out.Searched,
		"hits":           len(out.Products),
		"classification": string(result.Classification),
		"duration_ms":    out.Duration.Milliseconds(),
	})
	return out, nil
}

func (p *TurnPipeline) describe(ctx context.Context, in TurnInput) string {
	ctx, span := tracer.Start(ctx, "pipeline.vision")
	defer span.End()
	return p.describer.Describe(ctx, in.Image, in.ImageMIME)
}

func (p *TurnPipeline) route(ctx context.Context, text, imageDescription string) router.Decision {
	ctx, span := tracer.Start(ctx, "pipeline.route")
	defer span.End()
	return p.router.Route(ctx, text, imageDescription)
}

// search embeds the image when one is attached, the text otherwise. A text-only
// embedding provider yields no image vector; the image description stands in
// for it then. An empty vector skips the catalog call.
func (p *TurnPipeline) search(ctx context.Context, in TurnInput, imageDescription string) ([]store.Product, bool) {
	ctx, span := tracer.Start(ctx, "pipeline.search")
	defer span.End()

	var vector []float32
	if len(in.Image) > 0 {
		vector = p.embedder.EmbedImage(ctx, in.Image, in.ImageMIME)
		if len(vector) == 0 {
			vector = p.embedDescription(ctx, in, imageDescription)
		}
	} else {
		vector = p.embedder.EmbedText(ctx, in.Text)
	}
	if len(vector) == 0 {
		span.SetAttributes(attribute.Bool("search.skipped", true))
		return nil, false
	}

	products, err := p.searcher.Search(ctx, vector, p.cfg.SearchLimit)
	if err != nil {
		span.RecordError(err)
		p.logger.Warn("PIPELINE", "Catalog search failed, continuing without context", map[string]interface{}{
			"session_id": in.SessionID,
			"error":      err.Error(),
		})
		return nil, true
	}
	span.SetAttributes(attribute.Int("search.hits", len(products)))
	return products, true
}

func (p *TurnPipeline) embedDescription(ctx context.Context, in TurnInput, imageDescription string) []float32 {
	text := strings.TrimSpace(imageDescription)
	if text == "" || vision.IsError(text) {
		text = strings.TrimSpace(in.Text)
	}
	if text == "" {
		return nil
	}
	p.logger.Info("PIPELINE", "Image vector unavailable, embedding text instead", map[string]interface{}{
		"session_id": in.SessionID,
	})
	return p.embedder.EmbedText(ctx, text)
}

func (p *TurnPipeline) draft(ctx context.Context, in TurnInput, out *TurnOutput) (*response.Result, error) {
	ctx, span := tracer.Start(ctx, "pipeline.draft")
	defer span.End()

	return p.drafter.Generate(ctx, response.Input{
		SessionID:        in.SessionID,
		UserText:         in.Text,
		DisplayText:      in.DisplayText(),
		Context:          out.Context,
		ImageDescription: out.ImageDescription,
		IsInDomain:       out.Decision.IsInDomain,
		Intent:           string(out.Decision.Intent),
		Products:         out.Products,
	})
}
