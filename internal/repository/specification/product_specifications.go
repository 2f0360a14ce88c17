package specification

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// HasEmbedding skips catalog rows that were never embedded
type HasEmbedding struct{}

func (s HasEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("vector_text IS NOT NULL")
}

// NearestTo orders by cosine similarity to Vector, closest first.
// The similarity column is exposed as "similarity".
type NearestTo struct {
	Vector []float32
}

func (s NearestTo) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Select("id, title, brand, price, product_details_clean, image_filename, 1 - (vector_text <=> ?) as similarity", pgvector.NewVector(s.Vector)).
		Order("similarity DESC")
}

// Limit caps the result size
type Limit struct {
	N int
}

func (s Limit) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.N)
}
