package implementation

import (
	"context"

	"solemate-be/internal/model"
	"solemate-be/internal/repository/contract"
	"solemate-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ProductRepositoryImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func (r *ProductRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredProduct, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity
	type result struct {
		model.Product
		Similarity float64
	}
	var results []result

	err := specification.Chain(r.db.WithContext(ctx).Table("products"),
		specification.HasEmbedding{},
		specification.NearestTo{Vector: embedding},
		specification.Limit{N: limit},
	).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredProduct, len(results))
	for i := range results {
		product := results[i].Product
		scored[i] = &contract.ScoredProduct{
			Product:    &product,
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}
