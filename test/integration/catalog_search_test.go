package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"solemate-be/internal/model"
	"solemate-be/internal/pkg/logger"
	"solemate-be/internal/repository/implementation"
	"solemate-be/pkg/database"
	"solemate-be/pkg/embedding"
	"solemate-be/pkg/rag/search"

	"github.com/joho/godotenv"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitVector(hot int) []float32 {
	v := make([]float32, embedding.Dimension)
	v[hot] = 1
	return v
}

func TestCatalogSearchOrdersBySimilarity(t *testing.T) {
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error)
	require.NoError(t, db.AutoMigrate(&model.Product{}))

	// Everything happens inside a transaction that is rolled back
	tx := db.Begin()
	defer tx.Rollback()

	near := unitVector(0)
	near[1] = 0.1
	fixtures := []model.Product{
		{Title: "it-near", Brand: "Test", Price: "$1", ProductDetailsClean: "close match", VectorText: pgvector.NewVector(near)},
		{Title: "it-far", Brand: "Test", Price: "$2", ProductDetailsClean: "orthogonal", VectorText: pgvector.NewVector(unitVector(5))},
	}
	require.NoError(t, tx.Create(&fixtures).Error)

	client := search.NewClient(implementation.NewProductRepository(tx), logger.NewNopLogger(), 10*time.Second)
	products, err := client.Search(context.Background(), unitVector(0), search.DefaultLimit)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	assert.Equal(t, "it-near", products[0].Title)
	assert.Greater(t, products[0].Score, 0.9)
	assert.LessOrEqual(t, len(products), search.DefaultLimit)
	for i := 1; i < len(products); i++ {
		assert.GreaterOrEqual(t, products[i-1].Score, products[i].Score)
	}
}
