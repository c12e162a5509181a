package ai

import "context"

// CompletionRequest is one structured-output call. Schema is a JSON Schema
// object the reply must conform to; SchemaName labels it for providers that
// take a named schema.
type CompletionRequest struct {
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

// LLMProvider sends a request to an LLM and returns the raw text response.
// Used only by LLMJobExtractor and the provider decorators.
type LLMProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
