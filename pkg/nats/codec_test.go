package nats

import (
	"encoding/json"
	"testing"
	"time"

	"solemate-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	ev := events.TurnCompleted("s1", "SEARCH", true, true, 3, "recommendation", 1200*time.Millisecond)

	data, err := json.Marshal(envelope(ev))
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, events.TypeTurnCompleted, decoded.EventType())
	assert.Equal(t, "s1", decoded.Payload()["session_id"])
	assert.Equal(t, "events.chat.turn_completed", Subject(decoded.EventType()))
}

func TestDecodeRejectsUntyped(t *testing.T) {
	_, err := Decode([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
