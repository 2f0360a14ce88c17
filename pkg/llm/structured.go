package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ExtractJSON strips markdown fences and surrounding prose from a model reply
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```JSON")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")
	if jsonStart >= 0 && jsonEnd > jsonStart {
		response = response[jsonStart : jsonEnd+1]
	}
	return response
}

// MustCompileSchema compiles an inline JSON schema, panicking on a bad literal
func MustCompileSchema(name, source string) *jsonschema.Schema {
	return jsonschema.MustCompileString(name, source)
}

// DecodeStructured extracts the JSON object from a reply, validates it against
// schema and decodes it into out.
func DecodeStructured(schema *jsonschema.Schema, response string, out interface{}) error {
	raw := ExtractJSON(response)
	if raw == "" {
		return fmt.Errorf("empty response")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema violation: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
