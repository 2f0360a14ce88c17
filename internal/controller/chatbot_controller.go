package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"solemate-be/internal/dto"
	"solemate-be/internal/pkg/logger"
	"solemate-be/internal/pkg/serverutils"
	"solemate-be/internal/service"
	ws "solemate-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const maxUploadBytes = 8 * 1024 * 1024

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
	hub            *ws.Hub
	logger         logger.ILogger
}

func NewChatbotController(chatbotService service.IChatbotService, hub *ws.Hub, log logger.ILogger) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
		hub:            hub,
		logger:         log,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("session", c.CreateSession)
	h.Post("send", c.SendChat)
	h.Get("history/:session_id", c.GetHistory)
	h.Delete("session/:session_id", c.ResetSession)
	h.Get("stats", c.Stats)

	h.Use("ws", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		sessionId := ctx.Query("session_id")
		if _, err := uuid.Parse(sessionId); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "session_id must be a valid UUID")
		}
		ctx.Locals("session_id", sessionId)
		return ctx.Next()
	})
	h.Get("ws", websocket.New(c.serveWs))
}

func (c *chatbotController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.CreateSession(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

// SendChat accepts JSON with an optional base64 image, or multipart with an "image" file
func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	var image []byte
	if strings.HasPrefix(string(ctx.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		data, mimeType, err := readUpload(ctx)
		if err != nil {
			return err
		}
		image = data
		if req.ImageMime == "" {
			req.ImageMime = mimeType
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.SendChat(ctx.UserContext(), &req, image, c.hub.Reporter(req.SessionId))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatbotController) GetHistory(ctx *fiber.Ctx) error {
	sessionId, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatbotService.GetHistory(ctx.UserContext(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatbotController) ResetSession(ctx *fiber.Ctx) error {
	sessionId, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	if err := c.chatbotService.ResetSession(ctx.UserContext(), sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset session", nil))
}

func (c *chatbotController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get chat stats", c.chatbotService.Stats()))
}

func (c *chatbotController) serveWs(conn *websocket.Conn) {
	sessionId, _ := conn.Locals("session_id").(string)
	ws.ServeWs(c.hub, conn, sessionId, func(client *ws.Client, data []byte) {
		c.handleFrame(client.SessionID, data)
	})
}

// handleFrame runs one turn sent over the socket. Stages and the outcome go
// to every watcher of the session, not just the sender.
func (c *chatbotController) handleFrame(sessionId string, data []byte) {
	var req dto.SendChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.hub.Send(sessionId, ws.Event{Type: "error", Detail: "invalid message"})
		return
	}
	req.SessionId = sessionId

	if err := serverutils.ValidateRequest(req); err != nil {
		c.hub.Send(sessionId, ws.Event{Type: "error", Detail: err.Error()})
		return
	}

	res, err := c.chatbotService.SendChat(context.Background(), &req, nil, c.hub.Reporter(sessionId))
	if err != nil {
		c.logger.Warn("WEBSOCKET", "Turn failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		c.hub.Send(sessionId, ws.Event{Type: "error", Detail: err.Error()})
		return
	}

	c.hub.Send(sessionId, ws.Event{Type: "result", Data: res})
}

func sessionParam(ctx *fiber.Ctx) (string, error) {
	sessionId := ctx.Params("session_id")
	if _, err := uuid.Parse(sessionId); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "session_id must be a valid UUID")
	}
	return sessionId, nil
}

// readUpload returns the optional "image" file of a multipart request
func readUpload(ctx *fiber.Ctx) ([]byte, string, error) {
	header, err := ctx.FormFile("image")
	if err != nil {
		return nil, "", nil
	}
	if header.Size > maxUploadBytes {
		return nil, "", fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("image exceeds %d bytes", maxUploadBytes))
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Header.Get("Content-Type"), nil
}
