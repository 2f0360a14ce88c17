package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"solemate-be/internal/pkg/logger"
	"solemate-be/pkg/ai/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, h *Hub, sessionID string) *Client {
	c := &Client{Hub: h, SessionID: sessionID, Send: make(chan []byte, 8)}
	h.register <- c
	require.Eventually(t, func() bool { return h.Watchers(sessionID) > 0 }, time.Second, 5*time.Millisecond)
	return c
}

func TestHubDeliversToSessionOnly(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	go h.Run()

	a := register(t, h, "a")
	b := register(t, h, "b")

	h.Reporter("a").Report(pipeline.StageRouting, "Understanding your request")

	select {
	case data := <-a.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, "stage", ev.Type)
		assert.Equal(t, "routing", ev.Stage)
	case <-time.After(time.Second):
		t.Fatal("no event for session a")
	}
	assert.Empty(t, b.Send)
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	go h.Run()

	c := register(t, h, "s")
	h.unregister <- c

	require.Eventually(t, func() bool { return h.Watchers("s") == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestClientQueuesBoundedFrames(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	c := newClient(h, nil, "s", func(*Client, []byte) {})

	for i := 0; i < maxPendingFrames; i++ {
		assert.True(t, c.enqueue([]byte("frame")))
	}
	assert.False(t, c.enqueue([]byte("one too many")))

	c.reject("busy")
	var ev Event
	require.NoError(t, json.Unmarshal(<-c.Send, &ev))
	assert.Equal(t, "error", ev.Type)
	assert.Equal(t, "busy", ev.Detail)
}

func TestClientHandlesFramesOneAtATime(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())

	var mu sync.Mutex
	var order []string
	active, maxActive := 0, 0
	c := newClient(h, nil, "s", func(_ *Client, data []byte) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		order = append(order, string(data))
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
	})

	for _, frame := range []string{"a", "b", "c"} {
		require.True(t, c.enqueue([]byte(frame)))
	}
	close(c.inbox)

	done := make(chan struct{})
	go func() {
		c.workPump()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workPump did not drain the inbox")
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 1, maxActive)
}
