package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"solemate-be/internal/bootstrap"
	"solemate-be/internal/config"
	"solemate-be/internal/dto"
	"solemate-be/internal/service"
	"solemate-be/pkg/ai/pipeline"
	"solemate-be/pkg/database"

	"github.com/fatih/color"
)

const help = `Commands:
  /image <path> [text]  send a photo, optionally with a question
  /history              show the transcript
  /reset                start over
  /quit                 exit`

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container, err := bootstrap.NewContainer(ctx, db, cfg)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}
	defer container.Close()

	chat := container.ChatbotService
	session, err := chat.CreateSession(ctx)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	color.Cyan("SoleMate: %s", session.Greeting.Content)
	color.White(help)

	reporter := pipeline.ReporterFunc(func(stage pipeline.Stage, detail string) {
		if stage == pipeline.StageDone {
			return
		}
		color.HiBlack("  … %s %s", stage, detail)
	})

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.GreenString("you> "))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		req := &dto.SendChatRequest{SessionId: session.SessionId, Chat: line}
		var image []byte

		switch {
		case line == "/quit":
			return
		case line == "/reset":
			if err := chat.ResetSession(ctx, session.SessionId); err != nil {
				color.Red("Reset failed: %v", err)
			}
			color.Cyan("SoleMate: %s", session.Greeting.Content)
			continue
		case line == "/history":
			printHistory(ctx, chat, session.SessionId)
			continue
		case strings.HasPrefix(line, "/image "):
			path, text, _ := strings.Cut(strings.TrimPrefix(line, "/image "), " ")
			data, err := os.ReadFile(path)
			if err != nil {
				color.Red("Cannot read image: %v", err)
				continue
			}
			image = data
			req.Chat = text
			req.ImageMime = http.DetectContentType(data)
		case strings.HasPrefix(line, "/"):
			color.White(help)
			continue
		}

		res, err := chat.SendChat(ctx, req, image, reporter)
		if err != nil {
			color.Red("Error: %v", err)
			continue
		}
		printReply(res)
	}
}

func printReply(res *dto.SendChatResponse) {
	color.HiBlack("  [%s | %s in-domain=%t via %s | %dms]",
		res.Classification, res.Decision.Intent, res.Decision.IsInDomain, res.Decision.Source, res.DurationMs)
	if res.ImageDescription != "" {
		color.HiBlack("  image: %s", res.ImageDescription)
	}
	color.Cyan("SoleMate: %s", res.Reply.Content)
	for i, p := range res.Reply.Products {
		color.Yellow("  %d. %s (%s) %s  score=%.3f", i+1, p.Title, p.Brand, p.Price, p.Score)
	}
}

func printHistory(ctx context.Context, chat service.IChatbotService, sessionId string) {
	history, err := chat.GetHistory(ctx, sessionId)
	if err != nil {
		color.Red("History failed: %v", err)
		return
	}
	for _, turn := range history.Turns {
		if turn.Role == "user" {
			color.Green("you: %s", turn.Content)
		} else {
			color.Cyan("SoleMate: %s", turn.Content)
		}
	}
}
