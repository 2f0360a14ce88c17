package mapper

import (
	"net/url"
	"time"

	"solemate-be/internal/dto"
	"solemate-be/pkg/assets"
	"solemate-be/pkg/store"
)

// ProductImageRoute serves catalog images by reference
const ProductImageRoute = "/api/product/v1/image/"

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ProductToDTO(p store.Product) dto.ProductDTO {
	return dto.ProductDTO{
		Title:    p.Title,
		Brand:    p.Brand,
		Price:    p.Price,
		Features: p.Description,
		ImageUrl: m.ImageURL(p.ImageFilename),
		Score:    p.Score,
	}
}

// ImageURL points at the image route, or the placeholder when the product has no image
func (m *ChatMapper) ImageURL(ref string) string {
	if ref == "" {
		return assets.PlaceholderURL
	}
	return ProductImageRoute + url.PathEscape(ref)
}

func (m *ChatMapper) TurnToDTO(t store.Turn) *dto.ChatTurnDTO {
	var createdAt *time.Time
	if !t.At.IsZero() {
		at := t.At
		createdAt = &at
	}

	var products []dto.ProductDTO
	if len(t.Products) > 0 {
		products = make([]dto.ProductDTO, 0, len(t.Products))
		for _, p := range t.Products {
			products = append(products, m.ProductToDTO(p))
		}
	}

	return &dto.ChatTurnDTO{
		Role:      t.Role,
		Content:   t.Content,
		Thought:   t.Thought,
		Products:  products,
		CreatedAt: createdAt,
	}
}

func (m *ChatMapper) TurnsToDTO(turns []store.Turn) []*dto.ChatTurnDTO {
	out := make([]*dto.ChatTurnDTO, 0, len(turns))
	for _, t := range turns {
		out = append(out, m.TurnToDTO(t))
	}
	return out
}
