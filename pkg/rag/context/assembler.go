package context

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"solemate-be/pkg/store"
)

// DefaultFeatureBudget caps each product's features field, in characters
const DefaultFeatureBudget = 300

// EmptyContext is the canonical form of "no products"
const EmptyContext = "[]"

// ProductContext is the grounding view of one catalog hit
type ProductContext struct {
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
	Price       string `json:"price"`
	Features    string `json:"features"`
}

// Assemble serializes products into a compact JSON array for the drafting prompt.
// A non-positive budget uses DefaultFeatureBudget.
func Assemble(products []store.Product, budget int) string {
	if len(products) == 0 {
		return EmptyContext
	}
	if budget <= 0 {
		budget = DefaultFeatureBudget
	}

	items := make([]ProductContext, 0, len(products))
	for _, p := range products {
		items = append(items, ProductContext{
			ProductName: p.Title,
			Brand:       p.Brand,
			Price:       p.Price,
			Features:    Truncate(p.Description, budget),
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return EmptyContext
	}
	return strings.TrimSpace(buf.String())
}

// Truncate keeps at most limit characters of s
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
