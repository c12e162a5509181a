package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/amishk599/jobintake/internal/model"
)

// ClaudeProvider calls the Anthropic Messages API. Claude has no server-side
// schema enforcement here, so the schema travels in the system prompt and the
// reply is validated by the caller.
type ClaudeProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewClaudeProvider creates a provider targeting the Anthropic API. An empty
// baseURL uses the SDK default. SDK retries are off; retry.RetryProvider owns them.
func NewClaudeProvider(baseURL, apiKey, model string, httpClient *http.Client) *ClaudeProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &ClaudeProvider{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: 1024,
	}
}

// Complete sends req to Claude and returns the first text block with any
// markdown code fence removed.
func (p *ClaudeProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	system := req.System
	if req.Schema != nil {
		schema, err := json.Marshal(req.Schema)
		if err != nil {
			return "", fmt.Errorf("marshal schema: %w", err)
		}
		system += "\n\nRespond with a single JSON object and nothing else. It must match this JSON Schema:\n" + string(schema)
	}

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   p.maxTokens,
		Temperature: anthropic.Float(0),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			httpErr := &model.HTTPError{Provider: "anthropic", StatusCode: apiErr.StatusCode, Err: err}
			if apiErr.Response != nil {
				httpErr.RetryAfter = model.ParseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
			}
			return "", httpErr
		}
		return "", fmt.Errorf("claude request: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return stripCodeFence(block.Text), nil
		}
	}
	return "", fmt.Errorf("claude returned no text content")
}

// stripCodeFence removes a surrounding ```json or ``` fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
