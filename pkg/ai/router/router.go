package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"solemate-be/internal/pkg/logger"
	"solemate-be/pkg/llm"
)

const decisionSchema = `{
  "type": "object",
  "required": ["is_in_domain", "intent"],
  "properties": {
    "is_in_domain": {"type": "boolean"},
    "intent": {"enum": ["SEARCH", "CHAT"]}
  }
}`

var schema = llm.MustCompileSchema("router_decision.json", decisionSchema)

const classifierPrompt = `You are the intent router of SoleMate, a footwear shopping assistant.

User text: %q
Image description: %q

Decide two things:
1. is_in_domain: is the subject footwear? Judge primarily from the image description when one is present:
   if the image shows a non-footwear object (car, food, animal, furniture...), the turn is NOT in domain.
   When there is no image, judge from the text and the conversation context.
2. intent: "SEARCH" when the user explicitly or implicitly wants to find, compare or buy products
   (e.g. "find me", "I need", "show me", "something like this"). "CHAT" for greetings, thanks,
   general questions and off-topic talk. If is_in_domain is false, intent MUST be "CHAT".

Reply with ONLY a JSON object: {"is_in_domain": true|false, "intent": "SEARCH"|"CHAT"}`

// IntentRouter classifies a turn, short-circuiting trivial greetings
type IntentRouter struct {
	llmProvider llm.LLMProvider
	model       string
	logger      logger.ILogger
	timeout     time.Duration
}

func NewIntentRouter(llmProvider llm.LLMProvider, model string, log logger.ILogger, timeout time.Duration) *IntentRouter {
	return &IntentRouter{
		llmProvider: llmProvider,
		model:       model,
		logger:      log,
		timeout:     timeout,
	}
}

// Route never fails: classifier errors resolve to Fallback(text)
func (r *IntentRouter) Route(ctx context.Context, text, imageDescription string) Decision {
	if IsFastPath(text) {
		r.logger.Debug("ROUTER", "Fast path", map[string]interface{}{"text": Normalize(text)})
		return Decision{IsInDomain: true, Intent: IntentChat, Source: SourceFastPath}
	}

	decision, err := r.classify(ctx, text, imageDescription)
	if err != nil {
		fallback := Fallback(text)
		r.logger.Warn("ROUTER", "Classifier failed, using fallback", map[string]interface{}{
			"error":  err.Error(),
			"intent": string(fallback.Intent),
		})
		return fallback
	}

	r.logger.Info("ROUTER", "Turn classified", map[string]interface{}{
		"in_domain": decision.IsInDomain,
		"intent":    string(decision.Intent),
	})
	return decision
}

func (r *IntentRouter) classify(ctx context.Context, text, imageDescription string) (Decision, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	opts := []llm.Option{llm.WithJSON(), llm.WithTemperature(0)}
	if r.model != "" {
		opts = append(opts, llm.WithModel(r.model))
	}

	prompt := fmt.Sprintf(classifierPrompt, strings.TrimSpace(text), strings.TrimSpace(imageDescription))
	reply, err := r.llmProvider.Generate(ctx, prompt, opts...)
	if err != nil {
		return Decision{}, fmt.Errorf("classifier call: %w", err)
	}

	var decision Decision
	if err := llm.DecodeStructured(schema, reply, &decision); err != nil {
		return Decision{}, fmt.Errorf("classifier reply: %w", err)
	}

	// Out of domain forces CHAT whatever the model said
	if !decision.IsInDomain {
		decision.Intent = IntentChat
	}
	decision.Source = SourceLLM
	return decision, nil
}
