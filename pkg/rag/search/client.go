package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solemate-be/internal/mapper"
	"solemate-be/internal/pkg/logger"
	"solemate-be/internal/repository/contract"
	"solemate-be/pkg/store"
)

// DefaultLimit is the number of catalog hits fed to the drafting step
const DefaultLimit = 15

var ErrEmptyVector = errors.New("search: empty query vector")

// Client runs nearest-neighbour lookups against the product catalog
type Client struct {
	repo    contract.ProductRepository
	mapper  *mapper.ProductMapper
	logger  logger.ILogger
	timeout time.Duration
}

func NewClient(repo contract.ProductRepository, log logger.ILogger, timeout time.Duration) *Client {
	return &Client{
		repo:    repo,
		mapper:  mapper.NewProductMapper(),
		logger:  log,
		timeout: timeout,
	}
}

// Search returns up to limit products ordered by descending similarity.
// A zero or negative limit falls back to DefaultLimit.
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]store.Product, error) {
	if len(vector) == 0 {
		return nil, ErrEmptyVector
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	scored, err := c.repo.SearchSimilarWithScore(ctx, vector, limit)
	if err != nil {
		c.logger.Error("SEARCH", "Vector search failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("catalog search: %w", err)
	}

	products := c.mapper.ToStoreList(scored)
	if len(products) > limit {
		products = products[:limit]
	}

	details := map[string]interface{}{
		"hits":        len(products),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if len(products) > 0 {
		details["top_score"] = products[0].Score
	}
	c.logger.Debug("SEARCH", "Catalog search complete", details)

	return products, nil
}
