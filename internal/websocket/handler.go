package websocket

import (
	"solemate-be/pkg/ai/pipeline"

	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection under sessionID and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, onMessage MessageHandler) {
	client := newClient(hub, c, sessionID, onMessage)
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}

// Reporter streams pipeline stages to everyone watching a session
func (h *Hub) Reporter(sessionID string) pipeline.Reporter {
	return pipeline.ReporterFunc(func(stage pipeline.Stage, detail string) {
		h.Send(sessionID, Event{Type: "stage", Stage: string(stage), Detail: detail})
	})
}
