package context

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"solemate-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleEmpty(t *testing.T) {
	assert.Equal(t, "[]", Assemble(nil, 300))
	assert.Equal(t, "[]", Assemble([]store.Product{}, 300))
}

func TestAssembleTruncatesFeatures(t *testing.T) {
	products := []store.Product{
		{Title: "Pegasus 40", Brand: "Nike", Price: "$99.99", Description: strings.Repeat("é", 500)},
		{Title: "Gel-Kayano", Brand: "ASICS", Price: "$160", Description: "Stable & cushioned <daily> trainer"},
	}

	out := Assemble(products, 300)

	var items []ProductContext
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Pegasus 40", items[0].ProductName)
	assert.Equal(t, 300, utf8.RuneCountInString(items[0].Features))
	assert.Equal(t, "Stable & cushioned <daily> trainer", items[1].Features)
	assert.NotContains(t, out, `\u0026`)
}

func TestAssembleDefaultBudget(t *testing.T) {
	out := Assemble([]store.Product{{Title: "x", Description: strings.Repeat("a", 1000)}}, 0)

	var items []ProductContext
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items[0].Features, DefaultFeatureBudget)
}
