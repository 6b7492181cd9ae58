// Package orchestrator drives the conversation between the user, the LLM
// and the tool registry: a bounded agent/tools loop with mode selection.
package orchestrator

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/aixgo-dev/dayplan/internal/memory"
)

// Mode selects the system instructions for a turn.
type Mode string

const (
	ModeChat     Mode = "chat"
	ModePlanning Mode = "planning"
)

// HistoryEntry is an externally supplied role/content record, as front ends
// hand history back without knowing the wire message type.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the mutable state threaded through one conversation turn.
type Session struct {
	ThreadID   string
	Mode       Mode
	ActivePlan string
	UserGoals  string
	Messages   []openai.ChatCompletionMessage
}

// NewSession coerces external history records into wire messages. Roles other
// than user/assistant are dropped: system and tool messages are rebuilt each
// turn by the context assembler and never round-trip through callers.
func NewSession(threadID string, history []HistoryEntry) *Session {
	if threadID == "" {
		threadID = memory.DefaultThread
	}
	s := &Session{ThreadID: threadID, Mode: ModeChat}
	for _, h := range history {
		switch h.Role {
		case "user", "human":
			s.Messages = append(s.Messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: h.Content,
			})
		case "assistant", "ai":
			s.Messages = append(s.Messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: h.Content,
			})
		}
	}
	return s
}

// AppendUser adds a user message to the session history.
func (s *Session) AppendUser(text string) {
	s.Messages = append(s.Messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})
}

// LastUserText returns the content of the most recent user message.
func (s *Session) LastUserText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == openai.ChatMessageRoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// lastContent is the content of the final message in the session, which is
// what a finished turn returns to the caller.
func (s *Session) lastContent() string {
	if len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[len(s.Messages)-1].Content
}
