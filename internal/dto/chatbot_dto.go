package dto

import (
	"time"
)

type CreateSessionResponse struct {
	SessionId string       `json:"session_id"`
	Greeting  *ChatTurnDTO `json:"greeting"`
}

// SendChatRequest carries text, an image, or both. Multipart requests send the
// image in the "image" file field instead of ImageBase64.
type SendChatRequest struct {
	SessionId   string `json:"session_id" form:"session_id" validate:"required,uuid"`
	Chat        string `json:"chat" form:"chat" validate:"max=4000"`
	ImageBase64 string `json:"image_base64,omitempty" form:"-"`
	ImageMime   string `json:"image_mime,omitempty" form:"-"`
}

type ProductDTO struct {
	Title    string  `json:"title"`
	Brand    string  `json:"brand"`
	Price    string  `json:"price"`
	Features string  `json:"features"`
	ImageUrl string  `json:"image_url"`
	Score    float64 `json:"score"`
}

type ChatTurnDTO struct {
	Role      string       `json:"role"`
	Content   string       `json:"content"`
	Thought   string       `json:"thought,omitempty"`
	Products  []ProductDTO `json:"products,omitempty"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
}

type RouterDecisionDTO struct {
	IsInDomain bool   `json:"is_in_domain"`
	Intent     string `json:"intent"`
	Source     string `json:"source"`
}

type SendChatResponse struct {
	SessionId        string            `json:"session_id"`
	Classification   string            `json:"classification"`
	Decision         RouterDecisionDTO `json:"decision"`
	ImageDescription string            `json:"image_description,omitempty"`
	Sent             *ChatTurnDTO      `json:"sent"`
	Reply            *ChatTurnDTO      `json:"reply"`
	DurationMs       int64             `json:"duration_ms"`
}

type GetChatHistoryResponse struct {
	SessionId string         `json:"session_id"`
	Turns     []*ChatTurnDTO `json:"turns"`
}

// ChatStatsResponse aggregates turn events observed on the event bus
type ChatStatsResponse struct {
	Counts map[string]int64 `json:"counts"`
	Since  time.Time        `json:"since"`
}
