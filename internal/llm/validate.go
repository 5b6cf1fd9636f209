package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache holds compiled schemas by name. Stage schemas are package
// variables, so each compiles once per process.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// ValidateJSON checks a reply that should be JSON. An empty reply is
// *ErrEmptyResponse, text that does not parse is *ErrMalformedJSON and a
// shape that schema rejects is *ErrInvalidResponse. A nil schema only
// checks that the reply is JSON.
func ValidateJSON(schema *Schema, raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &ErrEmptyResponse{}
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrMalformedJSON{Content: raw, Err: err}
	}
	if schema == nil {
		return nil
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Schema: schema.Name, Content: raw, Err: err}
	}
	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{Schema: schema.Name, Content: raw, Err: err}
	}
	return nil
}

// checkReply applies the checks every provider runs on a finished reply:
// truncation first, then the request schema when one was sent.
func checkReply(req Request, content json.RawMessage, stop string) error {
	if stop == "max_tokens" {
		return &ErrMaxTokensExceeded{Content: content}
	}
	if req.Schema == nil {
		return nil
	}
	return ValidateJSON(req.Schema, content)
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed
	// slices, so the definition goes through a JSON round trip.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("decode schema %q: %w", schema.Name, err)
	}

	url := "schema://learnify/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", schema.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
