package mapper

import (
	"testing"
	"time"

	"solemate-be/internal/model"
	"solemate-be/internal/repository/contract"
	"solemate-be/pkg/assets"
	"solemate-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductToDTOImageURL(t *testing.T) {
	m := NewChatMapper()

	withImage := m.ProductToDTO(store.Product{Title: "Pegasus", ImageFilename: "pegasus 40.jpg", Description: "cushioned"})
	assert.Equal(t, "/api/product/v1/image/pegasus%2040.jpg", withImage.ImageUrl)
	assert.Equal(t, "cushioned", withImage.Features)

	noImage := m.ProductToDTO(store.Product{Title: "Samba"})
	assert.Equal(t, assets.PlaceholderURL, noImage.ImageUrl)
}

func TestTurnToDTO(t *testing.T) {
	m := NewChatMapper()

	greeting := m.TurnToDTO(store.Turn{Role: store.RoleAssistant, Content: store.GreetingMessage})
	assert.Nil(t, greeting.CreatedAt)
	assert.Nil(t, greeting.Products)

	turn := store.AssistantTurn("Try these", "user wants trail shoes", []store.Product{{Title: "Speedgoat"}})
	out := m.TurnToDTO(turn)
	require.NotNil(t, out.CreatedAt)
	assert.WithinDuration(t, time.Now(), *out.CreatedAt, time.Minute)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "Speedgoat", out.Products[0].Title)
	assert.Equal(t, "user wants trail shoes", out.Thought)
}

func TestProductMapperSkipsNil(t *testing.T) {
	m := NewProductMapper()
	list := m.ToStoreList([]*contract.ScoredProduct{
		nil,
		{Product: &model.Product{Title: "Gel-Kayano", ProductDetailsClean: "stability"}, Similarity: 0.82},
		{Product: nil},
	})
	require.Len(t, list, 1)
	assert.Equal(t, "stability", list[0].Description)
	assert.InDelta(t, 0.82, list[0].Score, 1e-9)
}
