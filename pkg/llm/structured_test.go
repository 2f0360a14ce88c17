package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Sure! {\"a\":1} hope it helps", `{"a":1}`},
		{"no object", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

const testSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {"name": {"type": "string"}}
}`

func TestDecodeStructured(t *testing.T) {
	schema := MustCompileSchema("test.json", testSchema)

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeStructured(schema, "```json\n{\"name\":\"boot\"}\n```", &out))
	assert.Equal(t, "boot", out.Name)

	assert.ErrorContains(t, DecodeStructured(schema, `{"other":1}`, &out), "schema violation")
	assert.ErrorContains(t, DecodeStructured(schema, `not json`, &out), "invalid json")
	assert.Error(t, DecodeStructured(schema, "", &out))
}
