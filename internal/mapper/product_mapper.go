package mapper

import (
	"solemate-be/internal/repository/contract"
	"solemate-be/pkg/store"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToStore(p *contract.ScoredProduct) store.Product {
	if p == nil || p.Product == nil {
		return store.Product{}
	}
	return store.Product{
		Title:         p.Product.Title,
		Brand:         p.Product.Brand,
		Price:         p.Product.Price,
		Description:   p.Product.ProductDetailsClean,
		ImageFilename: p.Product.ImageFilename,
		Score:         p.Similarity,
	}
}

func (m *ProductMapper) ToStoreList(products []*contract.ScoredProduct) []store.Product {
	out := make([]store.Product, 0, len(products))
	for _, p := range products {
		if p == nil || p.Product == nil {
			continue
		}
		out = append(out, m.ToStore(p))
	}
	return out
}
