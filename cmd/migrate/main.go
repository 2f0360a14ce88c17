package main

import (
	"log"

	"solemate-be/internal/config"
	"solemate-be/internal/model"
	"solemate-be/pkg/database"
)

// Provisions a local catalog for development. Production catalogs are owned by
// the ingestion side and only need to match the products table shape.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Enabling pgvector...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		log.Fatalf("Error: pgvector extension unavailable: %v", err)
	}

	log.Println("Step 2: Migrating products table...")
	if err := db.AutoMigrate(&model.Product{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating similarity index...")
	indexSQL := []string{
		`CREATE INDEX IF NOT EXISTS products_vector_text_hnsw ON products USING hnsw (vector_text vector_cosine_ops);`,
		`CREATE INDEX IF NOT EXISTS products_brand_idx ON products (brand);`,
	}
	for _, sql := range indexSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to create index: %v", err)
		}
	}

	log.Println("Success: catalog schema is ready.")
}
