package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aixgo-dev/dayplan/internal/intent"
	"github.com/aixgo-dev/dayplan/internal/llm"
	"github.com/aixgo-dev/dayplan/internal/observability"
	"github.com/aixgo-dev/dayplan/internal/plan"
	"github.com/aixgo-dev/dayplan/internal/tools"
)

// defaultMaxSteps bounds the agent/tools loop per turn. Each LLM call and
// each tool batch counts as one step.
const defaultMaxSteps = 10

// errStepLimit is returned when a turn exhausts its step ceiling. It is
// rendered to the user, so the message apologizes instead of diagnosing.
var errStepLimit = errors.New("sorry, this request needed more reasoning steps than allowed; please try rephrasing")

// Assistant runs conversation turns against the LLM and the tool registry.
type Assistant struct {
	llm      llm.Client
	model    string
	registry *tools.Registry
	plans    *plan.Store
	maxSteps int
}

// Option customizes an Assistant.
type Option func(*Assistant)

// WithMaxSteps overrides the per-turn step ceiling.
func WithMaxSteps(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// New builds an Assistant over the given LLM client, tool registry and plan
// store.
func New(client llm.Client, model string, registry *tools.Registry, plans *plan.Store, opts ...Option) *Assistant {
	a := &Assistant{
		llm:      client,
		model:    model,
		registry: registry,
		plans:    plans,
		maxSteps: defaultMaxSteps,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Chat runs one conversation turn: classify intent, assemble context, drive
// the agent/tools loop, return the final text. It never returns an error;
// failures come back as failure-marked strings the front end can show as-is.
func (a *Assistant) Chat(ctx context.Context, text string, history []HistoryEntry, threadID string) string {
	log.Printf("chat turn started (thread=%s): %q", threadID, clipForLog(text))

	s := NewSession(threadID, history)
	if _, location, err := a.plans.Latest(); err == nil {
		s.ActivePlan = location
	}
	s.AppendUser(text)

	out, err := a.run(ctx, s)
	if err != nil {
		log.Printf("chat turn failed: %v", err)
		return fmt.Sprintf("❌ Error: %v", err)
	}
	return out
}

// CreatePlanFromText bypasses intent classification and runs one planning
// turn for the given goal description.
func (a *Assistant) CreatePlanFromText(ctx context.Context, goal string) string {
	s := NewSession("", nil)
	s.Mode = ModePlanning
	s.UserGoals = goal
	s.AppendUser("Create a daily plan for: " + goal)

	out, err := a.run(ctx, s)
	if err != nil {
		return fmt.Sprintf("❌ Error creating plan: %v", err)
	}
	return out
}

// PlanStatus summarizes the latest saved plan without touching the loop.
func (a *Assistant) PlanStatus() string {
	latest, _, err := a.plans.Latest()
	if err != nil {
		return fmt.Sprintf("❌ Error reading plans: %v", err)
	}
	if latest == nil {
		return "📋 No active plans found. Create your first plan!"
	}

	prog := latest.CalculateProgress()
	return fmt.Sprintf("%s\n✅ Completed: %d | 🔄 In progress: %d | ⏳ Pending: %d\n📈 %.1f%% complete, %d minutes remaining",
		latest.Summary(), prog.Completed, prog.InProgress, prog.Pending,
		prog.CompletionPercentage, prog.EstimatedRemainingTime)
}

// ListAvailableTools renders the registry for display.
func (a *Assistant) ListAvailableTools() string {
	lines := make([]string, 0, len(a.registry.List()))
	for _, t := range a.registry.List() {
		lines = append(lines, fmt.Sprintf("🔧 **%s**: %s", t.Name, t.Description))
	}
	return "🛠️ **Available Tools:**\n\n" + strings.Join(lines, "\n")
}

// run drives the AGENT/TOOLS state machine until a terminal state or the
// step ceiling. The returned string is the content of the session's final
// message.
func (a *Assistant) run(ctx context.Context, s *Session) (string, error) {
	steps := 0
	for {
		// AGENT: re-evaluate mode, then consult the LLM with tools bound.
		// Mode is sticky: once planning, a turn never downgrades to chat.
		if steps++; steps > a.maxSteps {
			observability.RecordTurn(string(s.Mode), "step_limit", steps)
			return "", errStepLimit
		}
		if s.Mode != ModePlanning && intent.WantsPlan(s.LastUserText()) {
			log.Printf("switching to planning mode (thread=%s)", s.ThreadID)
			s.Mode = ModePlanning
		}

		start := time.Now()
		resp, err := a.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: assembleContext(s, a.plans),
			Tools:    a.registry.OpenAITools(),
		})
		if err != nil {
			// LLM errors are terminal for the turn, never retried here.
			observability.RecordLLMCall("error", time.Since(start))
			observability.RecordTurn(string(s.Mode), "llm_error", steps)
			log.Printf("llm call failed: %v", err)
			s.Messages = append(s.Messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: fmt.Sprintf("❌ I encountered an error: %v", err),
			})
			return s.lastContent(), nil
		}
		observability.RecordLLMCall("ok", time.Since(start))
		if len(resp.Choices) == 0 {
			observability.RecordTurn(string(s.Mode), "llm_error", steps)
			s.Messages = append(s.Messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: "❌ I encountered an error: empty model response",
			})
			return s.lastContent(), nil
		}

		msg := resp.Choices[0].Message
		s.Messages = append(s.Messages, msg)

		if len(msg.ToolCalls) == 0 {
			observability.RecordTurn(string(s.Mode), "answered", steps)
			return s.lastContent(), nil
		}

		// TOOLS: execute every requested call in order before returning
		// control to the agent.
		if steps++; steps > a.maxSteps {
			observability.RecordTurn(string(s.Mode), "step_limit", steps)
			return "", errStepLimit
		}

		var lastName, lastResult string
		for _, tc := range msg.ToolCalls {
			lastName = tc.Function.Name
			lastResult = a.registry.Execute(ctx, tc.Function.Name, tc.Function.Arguments)
			log.Printf("tool %s -> %q", tc.Function.Name, clipForLog(lastResult))
			s.Messages = append(s.Messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Name:       tc.Function.Name,
				Content:    lastResult,
				ToolCallID: tc.ID,
			})
		}

		// A successful save means the task is done: short-circuit instead of
		// handing the result back to the LLM for more reasoning.
		if lastName == tools.SaveTool && !tools.IsFailure(lastResult) {
			log.Printf("plan saved, ending turn (thread=%s)", s.ThreadID)
			observability.RecordTurn(string(s.Mode), "plan_saved", steps)
			return s.lastContent(), nil
		}
	}
}

func clipForLog(s string) string {
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
