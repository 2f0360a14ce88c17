package contract

import (
	"context"

	"solemate-be/internal/model"
)

// ScoredProduct wraps a catalog row with its cosine similarity to the query
type ScoredProduct struct {
	Product    *model.Product
	Similarity float64 // -1.0 to 1.0 (1.0 = identical)
}

type ProductRepository interface {
	// SearchSimilarWithScore returns the top-limit products ordered by descending similarity
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredProduct, error)
	Count(ctx context.Context) (int64, error)
}
