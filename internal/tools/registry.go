// Package tools defines the fixed set of side-effecting operations the LLM
// may invoke. Every tool returns a human-readable string; failures are
// "❌ "-prefixed strings rather than errors, because the LLM must be able to
// read the result and react to it on its next step.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aixgo-dev/dayplan/internal/llm"
	"github.com/aixgo-dev/dayplan/internal/memory"
	"github.com/aixgo-dev/dayplan/internal/observability"
	"github.com/aixgo-dev/dayplan/internal/plan"
	"github.com/aixgo-dev/dayplan/internal/search"
)

// FailureMark prefixes every failure result. The orchestration loop branches
// on this prefix to distinguish a successful save from a failed one.
const FailureMark = "❌"

// SaveTool is the tool whose successful result terminates the loop.
const SaveTool = "save_daily_plan"

// CreatePlanTool generates and persists a plan in one call.
const CreatePlanTool = "create_daily_plan"

// Failf formats a failure-marked result string.
func Failf(format string, args ...any) string {
	return FailureMark + " " + fmt.Sprintf(format, args...)
}

// IsFailure reports whether a tool result carries the failure mark.
func IsFailure(result string) bool {
	return len(result) >= len(FailureMark) && result[:len(FailureMark)] == FailureMark
}

// Handler executes one tool call against its raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) string

// Tool is one registered operation.
type Tool struct {
	Name        string
	Description string
	Schema      *llm.Schema
	Handler     Handler
}

// Registry is the static name → tool table bound to the LLM.
type Registry struct {
	order []string
	tools map[string]Tool
}

// Deps holds the collaborators tools execute against. Memories and Searcher
// may be nil; the corresponding tools then report themselves unavailable
// instead of erroring.
type Deps struct {
	Plans    *plan.Store
	Memories memory.Store
	Searcher search.Searcher
	LLM      llm.Client
	Model    string
	Now      func() time.Time
}

// NewRegistry builds the full tool set for the assistant.
func NewRegistry(d Deps) *Registry {
	if d.Now == nil {
		d.Now = time.Now
	}

	r := &Registry{tools: make(map[string]Tool)}
	registerPlanningTools(r, d)
	registerSearchTool(r, d)
	registerMemoryTools(r, d)
	return r
}

func (r *Registry) register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// OpenAITools renders the registry as the tool schema set bound to a chat
// completion request.
func (r *Registry) OpenAITools() []openai.Tool {
	out := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		params, err := json.Marshal(t.Schema)
		if err != nil {
			params = []byte(`{"type":"object"}`)
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(params),
			},
		})
	}
	return out
}

// Execute runs the named tool against its JSON argument string. Unknown
// tools and argument failures produce failure-marked results, never errors:
// the LLM reads them and adapts.
func (r *Registry) Execute(ctx context.Context, name, arguments string) string {
	t, ok := r.tools[name]
	if !ok {
		return Failf("Unknown tool: %s", name)
	}

	if arguments == "" {
		arguments = "{}"
	}

	start := time.Now()
	result := t.Handler(ctx, json.RawMessage(arguments))

	status := "ok"
	if IsFailure(result) {
		status = "error"
	}
	observability.RecordToolCall(name, status, time.Since(start))

	return result
}

// decodeArgs unmarshals raw tool arguments into the given input struct.
func decodeArgs(raw json.RawMessage, into any) error {
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

// schemaFor derives the input schema from an argument struct prototype.
func schemaFor(v any) *llm.Schema {
	s, err := llm.FromStruct(v)
	if err != nil {
		return &llm.Schema{Type: "object"}
	}
	return s
}
