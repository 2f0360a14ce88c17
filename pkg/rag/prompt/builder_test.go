package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIncludesTurnFacts(t *testing.T) {
	out := NewSystemBuilder(TurnFacts{
		Context:          `[{"product_name":"Pegasus"}]`,
		ImageDescription: "a blue trail shoe",
		IsInDomain:       true,
		Intent:           "SEARCH",
	}).Build()

	assert.Contains(t, out, `[{"product_name":"Pegasus"}]`)
	assert.Contains(t, out, "Image description: a blue trail shoe")
	assert.Contains(t, out, "In domain (footwear): true")
	assert.Contains(t, out, "Intent: SEARCH")
	assert.Contains(t, out, `"recommended_products": []`)
}

func TestBuildWithoutImage(t *testing.T) {
	out := NewSystemBuilder(TurnFacts{Context: "[]", Intent: "CHAT"}).Build()

	assert.Contains(t, out, "Image description: none")
	assert.Contains(t, out, "<catalog_context>\n[]\n</catalog_context>")
}
