package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"solemate-be/internal/pkg/logger"
	"solemate-be/pkg/llm"
	"solemate-be/pkg/rag/prompt"
	"solemate-be/pkg/rag/session"
	"solemate-be/pkg/store"
)

var (
	// ErrGeneration means the drafting call itself failed
	ErrGeneration = errors.New("response generation failed")
	// ErrContract means the reply did not match the output schema
	ErrContract = errors.New("response violates output contract")
)

// Classification is the closed set of drafting outcomes
type Classification string

const (
	ClassificationRecommendation Classification = "recommendation"
	ClassificationChat           Classification = "chat"
	ClassificationOffTopic       Classification = "off_topic"
)

const resultSchema = `{
  "type": "object",
  "required": ["classification", "thought", "response_text", "recommended_products"],
  "properties": {
    "classification": {"enum": ["recommendation", "chat", "off_topic"]},
    "thought": {"type": "string"},
    "response_text": {"type": "string", "minLength": 1},
    "recommended_products": {"type": "array"}
  }
}`

var schema = llm.MustCompileSchema("generation_result.json", resultSchema)

// HistoryStore is the slice of the session store the generator needs
type HistoryStore interface {
	GetHistory(ctx context.Context, sessionID string) ([]store.Turn, error)
	Append(ctx context.Context, sessionID string, turns ...store.Turn) error
}

type Input struct {
	SessionID        string
	UserText         string
	DisplayText      string // stored as the user turn; defaults to UserText
	Context          string
	ImageDescription string
	IsInDomain       bool
	Intent           string
	Products         []store.Product // current search hits, attached only to recommendations
}

type Result struct {
	Classification      Classification    `json:"classification"`
	Thought             string            `json:"thought"`
	ResponseText        string            `json:"response_text"`
	RecommendedProducts []json.RawMessage `json:"recommended_products"`
	Products            []store.Product   `json:"-"`
}

// IsRecommendation reports whether products may be attached to the turn
func (r *Result) IsRecommendation() bool {
	return r.Classification == ClassificationRecommendation
}

type Generator struct {
	llmProvider llm.LLMProvider
	history     HistoryStore
	logger      logger.ILogger
	timeout     time.Duration
}

func NewGenerator(llmProvider llm.LLMProvider, history HistoryStore, log logger.ILogger, timeout time.Duration) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		history:     history,
		logger:      log,
		timeout:     timeout,
	}
}

// Generate drafts the reply and, only on success, appends the user and
// assistant turns to the session. Failures are not retried.
func (g *Generator) Generate(ctx context.Context, in Input) (*Result, error) {
	turns, err := g.history.GetHistory(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load history: %v", ErrGeneration, err)
	}

	displayText := in.DisplayText
	if displayText == "" {
		displayText = in.UserText
	}
	userText := in.UserText
	if strings.TrimSpace(userText) == "" {
		userText = displayText
	}

	system := prompt.NewSystemBuilder(prompt.TurnFacts{
		Context:          in.Context,
		ImageDescription: in.ImageDescription,
		IsInDomain:       in.IsInDomain,
		Intent:           in.Intent,
	}).Build()

	messages := make([]llm.Message, 0, len(turns)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	messages = append(messages, session.ToMessages(turns)...)
	messages = append(messages, llm.Message{Role: "user", Content: userText})

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := g.llmProvider.Chat(callCtx, messages, llm.WithJSON())
	if err != nil {
		g.logger.Error("GENERATION", "Drafting call failed", map[string]interface{}{
			"session_id": in.SessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var result Result
	if err := llm.DecodeStructured(schema, reply, &result); err != nil {
		g.logger.Error("GENERATION", "Reply rejected", map[string]interface{}{
			"session_id": in.SessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrContract, err)
	}
	if result.RecommendedProducts == nil {
		result.RecommendedProducts = []json.RawMessage{}
	}
	if result.IsRecommendation() && len(in.Products) > 0 {
		result.Products = in.Products
	}

	if err := g.history.Append(ctx, in.SessionID,
		store.UserTurn(displayText),
		store.AssistantTurn(result.ResponseText, result.Thought, result.Products),
	); err != nil {
		return nil, fmt.Errorf("%w: save history: %v", ErrGeneration, err)
	}

	g.logger.Info("GENERATION", "Reply drafted", map[string]interface{}{
		"session_id":     in.SessionID,
		"classification": string(result.Classification),
		"history_turns":  len(turns),
		"duration_ms":    time.Since(start).Milliseconds(),
	})
	return &result, nil
}
