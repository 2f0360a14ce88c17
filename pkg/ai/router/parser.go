package router

import (
	"strings"
	"unicode/utf8"
)

// Intent is the turn's purpose
type Intent string

const (
	IntentSearch Intent = "SEARCH"
	IntentChat   Intent = "CHAT"
)

// Decision is computed once per turn and never persisted
type Decision struct {
	IsInDomain bool   `json:"is_in_domain"`
	Intent     Intent `json:"intent"`
	Source     string `json:"-"` // fast_path, llm or fallback
}

const (
	SourceFastPath = "fast_path"
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// Inputs shorter than this many characters fall back to CHAT when the classifier fails
const shortTextThreshold = 15

const fastPathMaxTokens = 3

var greetings = map[string]struct{}{
	"hi":           {},
	"hello":        {},
	"hey":          {},
	"halo":         {},
	"hai":          {},
	"hola":         {},
	"thanks":       {},
	"thank you":    {},
	"thx":          {},
	"ok":           {},
	"okay":         {},
	"yo":           {},
	"bye":          {},
	"good morning": {},
}

// Normalize lowercases, trims and drops trailing punctuation
func Normalize(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	lower = strings.TrimRight(lower, "!.?, ")
	return strings.Join(strings.Fields(lower), " ")
}

// IsFastPath reports whether text is a trivial greeting or filler turn
func IsFastPath(text string) bool {
	normalized := Normalize(text)
	if normalized == "" {
		return false
	}
	if len(strings.Fields(normalized)) >= fastPathMaxTokens {
		return false
	}
	_, ok := greetings[normalized]
	return ok
}

// Fallback is the decision used when the classifier call or its parse fails
func Fallback(text string) Decision {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < shortTextThreshold {
		return Decision{IsInDomain: true, Intent: IntentChat, Source: SourceFallback}
	}
	return Decision{IsInDomain: true, Intent: IntentSearch, Source: SourceFallback}
}
