// Package llm is a thin abstraction over generative text providers that
// return schema-constrained JSON.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured JSON from a prompt.
type Provider interface {
	// Generate sends req and returns the response. When req.Schema is set the
	// content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a single-turn generation request.
type Request struct {
	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Response is the provider output with token counts when the provider reports them.
type Response struct {
	Content      json.RawMessage
	Model        string
	InputTokens  int
	OutputTokens int
}

// resolveModel maps a short alias to a provider model id. Unknown names pass
// through unchanged.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
