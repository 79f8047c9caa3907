package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is the JSON Schema a response must conform to. It is compiled on
// first use and must not be copied afterwards.
type Schema struct {
	// Name identifies the schema, e.g. "maxi-profile".
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Validate checks raw against the schema. A nil schema accepts anything.
func (s *Schema) Validate(raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	s.once.Do(s.compile)
	if s.err != nil {
		return s.err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid("not JSON: %v", err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return invalid("%s: %v", s.Name, err)
	}
	return nil
}

func (s *Schema) compile() {
	def, err := json.Marshal(s.Definition)
	if err != nil {
		s.err = fmt.Errorf("schema %s: %w", s.Name, err)
		return
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		s.err = fmt.Errorf("schema %s: %w", s.Name, err)
		return
	}
	url := "mem://" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		s.err = fmt.Errorf("schema %s: %w", s.Name, err)
		return
	}
	s.compiled, s.err = c.Compile(url)
}
