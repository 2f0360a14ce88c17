package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"solemate-be/internal/config"
	"solemate-be/internal/model"
	"solemate-be/pkg/database"
	"solemate-be/pkg/embedding"
	embeddingfactory "solemate-be/pkg/embedding/factory"
	llmgemini "solemate-be/pkg/llm/gemini"

	"github.com/pgvector/pgvector-go"
	"google.golang.org/genai"
)

type catalogEntry struct {
	Title         string `json:"title"`
	Brand         string `json:"brand"`
	Price         string `json:"price"`
	Details       string `json:"details"`
	ImageFilename string `json:"image_filename"`
}

// Loads a JSON array of catalog entries into a development database. Vectors
// are computed under the document regime so query-side search lines up.
func main() {
	file := flag.String("file", "catalog.json", "JSON array of catalog entries")
	flag.Parse()

	cfg := config.Load()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Error: cannot read %s: %v", *file, err)
	}
	var entries []catalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Fatalf("Error: invalid catalog file: %v", err)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()

	var geminiClient *genai.Client
	if cfg.Ai.EmbeddingProvider == "gemini" {
		geminiClient, err = llmgemini.NewClient(ctx, cfg.Keys.GoogleGemini)
		if err != nil {
			log.Fatal("Error: ", err)
		}
	}

	provider, err := embeddingfactory.NewEmbeddingProvider(embeddingfactory.Settings{
		Provider:      cfg.Ai.EmbeddingProvider,
		Model:         cfg.Ai.EmbeddingModel,
		VoyageKey:     cfg.Keys.Voyage,
		JinaKey:       cfg.Keys.Jina,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		GeminiClient:  geminiClient,
	})
	if err != nil {
		log.Fatal("Error: ", err)
	}

	seeded := 0
	for _, e := range entries {
		var existing model.Product
		if err := db.Where("title = ? AND brand = ?", e.Title, e.Brand).First(&existing).Error; err == nil {
			log.Printf("Product '%s' already exists, skipping...", e.Title)
			continue
		}

		vec, err := provider.Embed(ctx, embedding.Input{Text: documentText(e)}, embedding.InputTypeDocument)
		if err != nil {
			log.Printf("Warn: embedding failed for '%s': %v", e.Title, err)
			continue
		}
		if len(vec) != embedding.Dimension {
			log.Printf("Warn: '%s' got %d dimensions, want %d", e.Title, len(vec), embedding.Dimension)
			continue
		}

		product := model.Product{
			Title:               e.Title,
			Brand:               e.Brand,
			Price:               e.Price,
			ProductDetailsClean: e.Details,
			ImageFilename:       e.ImageFilename,
			VectorText:          pgvector.NewVector(vec),
		}
		if err := db.Create(&product).Error; err != nil {
			log.Printf("Warn: insert failed for '%s': %v", e.Title, err)
			continue
		}
		seeded++
	}

	log.Printf("Success: seeded %d of %d products.", seeded, len(entries))
}

func documentText(e catalogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s by %s. ", e.Title, e.Brand)
	if e.Price != "" {
		fmt.Fprintf(&b, "Price %s. ", e.Price)
	}
	b.WriteString(e.Details)
	return strings.TrimSpace(b.String())
}
