// Package llm wraps the OpenAI-compatible chat completion API used by the
// orchestrator: plain completions bound to tools, and schema-constrained
// structured output for plan generation.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the narrow chat-completion surface the orchestrator depends on.
// *openai.Client satisfies it; tests substitute a MockClient.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config selects the provider endpoint and model.
type Config struct {
	APIKey      string
	BaseURL     string // empty for api.openai.com; set for Groq or other compatible endpoints
	Model       string
	Temperature float32
}

// NewClient creates an OpenAI-compatible client for the configured endpoint.
func NewClient(cfg Config) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: API key is required")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(oc), nil
}

// Structured sends a single-prompt completion constrained to the JSON schema
// of out's type and decodes the reply into out. Providers that ignore the
// response format and wrap the object in prose are handled by extracting the
// first balanced JSON object from the reply.
func Structured(ctx context.Context, c Client, model, prompt string, out any) error {
	schema, err := FromStruct(out)
	if err != nil {
		return fmt.Errorf("derive schema: %w", err)
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "response",
				Schema: json.RawMessage(raw),
			},
		},
	})
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("no choices in response")
	}

	content := ExtractJSON(resp.Choices[0].Message.Content)
	if content == "" {
		return fmt.Errorf("no valid JSON found in response")
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("parse structured response: %w", err)
	}
	return nil
}
