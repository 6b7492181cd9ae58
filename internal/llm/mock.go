package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// MockClient is a scriptable Client for tests. Responses and Errors are
// consumed in order, one per call; calls past the scripted sequence return a
// plain text response.
type MockClient struct {
	Responses []openai.ChatCompletionResponse
	Errors    []error

	// Calls records every request in order.
	Calls []openai.ChatCompletionRequest

	idx int
}

// CreateChatCompletion implements Client.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.Calls = append(m.Calls, req)

	i := m.idx
	m.idx++

	if i < len(m.Errors) && m.Errors[i] != nil {
		return openai.ChatCompletionResponse{}, m.Errors[i]
	}
	if i < len(m.Responses) {
		return m.Responses[i], nil
	}

	return TextResponse("Mock response"), nil
}

// TextResponse builds a plain assistant text response.
func TextResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			FinishReason: openai.FinishReasonStop,
		}},
	}
}

// ToolCallResponse builds a response requesting the named tools with the
// given JSON argument strings. Names and args are paired by index.
func ToolCallResponse(names []string, args []string) openai.ChatCompletionResponse {
	calls := make([]openai.ToolCall, len(names))
	for i, name := range names {
		a := "{}"
		if i < len(args) {
			a = args[i]
		}
		calls[i] = openai.ToolCall{
			ID:       "call-" + name,
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: name, Arguments: a},
		}
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:      openai.ChatMessageRoleAssistant,
				ToolCalls: calls,
			},
			FinishReason: openai.FinishReasonToolCalls,
		}},
	}
}
