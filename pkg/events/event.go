package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "chat.turn_completed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the concrete event carried on the bus
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeTurnCompleted = "chat.turn_completed"
	TypeTurnFailed    = "chat.turn_failed"
	TypeSessionReset  = "chat.session_reset"
)

// TurnCompleted records the outcome of a successful turn
func TurnCompleted(sessionID, intent string, inDomain, searched bool, hits int, classification string, duration time.Duration) BaseEvent {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"session_id":     sessionID,
			"intent":         intent,
			"in_domain":      inDomain,
			"searched":       searched,
			"hits":           hits,
			"classification": classification,
			"duration_ms":    duration.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}

// TurnFailed records a turn that ended in a drafting error
func TurnFailed(sessionID, reason string) BaseEvent {
	return BaseEvent{
		Type: TypeTurnFailed,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"reason":     reason,
		},
		OccurredAt: time.Now(),
	}
}

func SessionReset(sessionID string) BaseEvent {
	return BaseEvent{
		Type:       TypeSessionReset,
		Data:       map[string]interface{}{"session_id": sessionID},
		OccurredAt: time.Now(),
	}
}
