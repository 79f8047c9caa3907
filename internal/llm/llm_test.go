package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

var testSchema = &Schema{
	Name: "test-pair",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
		},
		"required":             []string{"title", "description"},
		"additionalProperties": false,
	},
}

func TestMockProviderReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"title":"a","description":"b"}`)},
	)
	resp, err := mock.Generate(context.Background(), Request{Prompt: "hi", Schema: testSchema})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"title":"a","description":"b"}` {
		t.Fatalf("unexpected content %s", resp.Content)
	}
	if mock.CallCount() != 1 || mock.Calls[0].Prompt != "hi" {
		t.Fatalf("expected recorded call, got %+v", mock.Calls)
	}

	_, err = mock.Generate(context.Background(), Request{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on empty queue, got %v", err)
	}
}

func TestMockProviderValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"title":"only"}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: testSchema})
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"title":"t","description":"d"}`, false},
		{"missing field", `{"title":"t"}`, true},
		{"extra field", `{"title":"t","description":"d","x":1}`, true},
		{"wrong type", `{"title":1,"description":"d"}`, true},
		{"not json", `title: t`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testSchema.Validate(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%s) err=%v, wantErr=%v", tt.raw, err, tt.wantErr)
			}
		})
	}
	var none *Schema
	if err := none.Validate(json.RawMessage(`whatever`)); err != nil {
		t.Fatalf("nil schema should pass, got %v", err)
	}
}

func TestGeminiSchema(t *testing.T) {
	schema, err := geminiSchema(testSchema.Definition)
	if err != nil {
		t.Fatalf("convert schema: %v", err)
	}
	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT, got %s", schema.Type)
	}
	if schema.Properties["title"].Type != "STRING" {
		t.Fatalf("expected STRING title, got %s", schema.Properties["title"].Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %v", schema.Required)
	}
}

func TestCallFailedClassifiesStatus(t *testing.T) {
	cause := errors.New("upstream")
	if err := callFailed(cause, 429); !errors.Is(err, ErrRateLimited) || !errors.Is(err, cause) {
		t.Fatalf("expected rate limit wrapping cause, got %v", err)
	}
	if err := callFailed(cause, 0); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestResolveModel(t *testing.T) {
	if got := resolveModel("gemini-flash", geminiModels); got != "gemini-2.0-flash" {
		t.Fatalf("unexpected model %q", got)
	}
	if got := resolveModel("custom-model", geminiModels); got != "custom-model" {
		t.Fatalf("expected pass-through, got %q", got)
	}
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	p, err := NewProvider(ctx, Config{}, log)
	if err != nil || p != nil {
		t.Fatalf("expected no provider, got %v, %v", p, err)
	}
	if _, err := NewProvider(ctx, Config{Provider: "bogus"}, log); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if _, err := NewProvider(ctx, Config{Provider: "openai"}, log); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	p, err = NewProvider(ctx, Config{Provider: "mock"}, log)
	if err != nil {
		t.Fatalf("mock provider: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock model id, got %q", p.ModelID())
	}
}
