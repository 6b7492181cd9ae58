package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aixgo-dev/dayplan/internal/llm"
	"github.com/aixgo-dev/dayplan/internal/memory"
	"github.com/aixgo-dev/dayplan/internal/plan"
	"github.com/aixgo-dev/dayplan/internal/prompts"
	"github.com/aixgo-dev/dayplan/internal/tools"
)

const planningText = "Schedule my day: code 9-11am, exercise 11:30-12, lunch 12-1pm"

func newTestAssistant(t *testing.T, mock *llm.MockClient, opts ...Option) (*Assistant, *plan.Store) {
	t.Helper()

	now := func() time.Time { return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC) }
	plans, err := plan.NewStore(t.TempDir(), plan.WithClock(now))
	require.NoError(t, err)
	memories, err := memory.NewFileStore(t.TempDir())
	require.NoError(t, err)

	registry := tools.NewRegistry(tools.Deps{
		Plans:    plans,
		Memories: memories,
		LLM:      mock,
		Model:    "test-model",
		Now:      now,
	})

	return New(mock, "test-model", registry, plans, opts...), plans
}

func savePlanArguments(t *testing.T) string {
	t.Helper()
	args, err := json.Marshal(map[string]any{
		"plan": plan.Plan{
			PlanID: "plan_20260901_090000_abc123",
			Date:   "2026-09-01",
			Tasks:  []plan.Task{{ID: "task_1", Title: "Code", Priority: plan.PriorityHigh, EstimatedDuration: 120, ScheduledTime: "09:00"}},
		},
	})
	require.NoError(t, err)
	return string(args)
}

func TestChatPlainAnswer(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{
			llm.TextResponse("Happy to help! What would you like to get done today?"),
		},
	}
	a, _ := newTestAssistant(t, mock)

	out := a.Chat(context.Background(), "hello there", nil, "t1")

	assert.Equal(t, "Happy to help! What would you like to get done today?", out)
	require.Len(t, mock.Calls, 1)

	// Conversational input stays in chat mode: general prompt, no plan context.
	msgs := mock.Calls[0].Messages
	assert.Equal(t, prompts.GeneralChat, msgs[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)
	assert.Equal(t, "hello there", msgs[1].Content)
}

func TestChatSwitchesToPlanningMode(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{
			llm.TextResponse("Let me set that up."),
		},
	}
	a, _ := newTestAssistant(t, mock)

	a.Chat(context.Background(), planningText, nil, "t1")

	require.Len(t, mock.Calls, 1)
	msgs := mock.Calls[0].Messages
	assert.Equal(t, prompts.PlanningAgent, msgs[0].Content)

	// Planning mode injects the prior-plan context as an assistant message,
	// carrying the thread id the planning prompt promises.
	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, noPreviousPlans)
	assert.Contains(t, msgs[1].Content, "🧵 Current thread_id: t1")
	assert.NotEmpty(t, mock.Calls[0].Tools)
}

func TestChatPlanContextIncludesLatestPlan(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{llm.TextResponse("ok")},
	}
	a, plans := newTestAssistant(t, mock)

	_, err := plans.Save(&plan.Plan{
		PlanID: "plan_20260901_080000_xyz789",
		Date:   "2026-09-01",
		Tasks:  []plan.Task{{ID: "task_1", Title: "Existing task", EstimatedDuration: 30, ScheduledTime: "08:00"}},
	})
	require.NoError(t, err)

	a.Chat(context.Background(), planningText, nil, "t1")

	require.Len(t, mock.Calls, 1)
	ctxMsg := mock.Calls[0].Messages[1].Content
	assert.Contains(t, ctxMsg, "📊 **Current Plan Context:**")
	assert.Contains(t, ctxMsg, "0/1 tasks completed")
	assert.Contains(t, ctxMsg, "Existing task")
}

func TestChatSaveSuccessShortCircuits(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{
			llm.ToolCallResponse([]string{"save_daily_plan"}, []string{savePlanArguments(t)}),
			// Never reached: a successful save ends the turn.
			llm.TextResponse("should not appear"),
		},
	}
	a, plans := newTestAssistant(t, mock)

	out := a.Chat(context.Background(), planningText, nil, "t1")

	// Exactly one AGENT step: the save result is final.
	require.Len(t, mock.Calls, 1)
	assert.False(t, strings.HasPrefix(out, "❌"))
	assert.Contains(t, out, "plan_2026-09-01_090000.json")

	saved, _, err := plans.Latest()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "plan_20260901_090000_abc123", saved.PlanID)
}

func TestChatFailedSaveContinuesLoop(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{
			llm.ToolCallResponse([]string{"save_daily_plan"}, []string{`{not json`}),
			llm.TextResponse("The save failed, let me apologize."),
		},
	}
	a, _ := newTestAssistant(t, mock)

	out := a.Chat(context.Background(), planningText, nil, "t1")

	// Failure-marked tool result goes back to the LLM for another AGENT step.
	require.Len(t, mock.Calls, 2)
	assert.Equal(t, "The save failed, let me apologize.", out)

	// The second call sees the tool result in history.
	last := mock.Calls[1].Messages[len(mock.Calls[1].Messages)-1]
	assert.Equal(t, openai.ChatMessageRoleTool, last.Role)
	assert.True(t, strings.HasPrefix(last.Content, "❌"))
}

func TestChatNonSaveToolLoopsBack(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{
			llm.ToolCallResponse([]string{"get_current_time_info"}, []string{"{}"}),
			llm.TextResponse("It is nine in the morning."),
		},
	}
	a, _ := newTestAssistant(t, mock)

	out := a.Chat(context.Background(), planningText, nil, "t1")

	require.Len(t, mock.Calls, 2)
	assert.Equal(t, "It is nine in the morning.", out)

	// Tool round-trip wiring: call id matches, tool message follows assistant.
	msgs := mock.Calls[1].Messages
	toolMsg := msgs[len(msgs)-1]
	assert.Equal(t, "get_current_time_info", toolMsg.Name)
	assert.Equal(t, "call-get_current_time_info", toolMsg.ToolCallID)
}

func TestChatExecutesAllToolCallsInBatch(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{
			llm.ToolCallResponse(
				[]string{"get_current_time_info", "list_saved_plans"},
				[]string{"{}", "{}"},
			),
			llm.TextResponse("done"),
		},
	}
	a, _ := newTestAssistant(t, mock)

	a.Chat(context.Background(), planningText, nil, "t1")

	require.Len(t, mock.Calls, 2)
	msgs := mock.Calls[1].Messages
	assert.Equal(t, "get_current_time_info", msgs[len(msgs)-2].Name)
	assert.Equal(t, "list_saved_plans", msgs[len(msgs)-1].Name)
	assert.Equal(t, "No saved plans found.", msgs[len(msgs)-1].Content)
}

func TestChatLLMErrorIsTerminal(t *testing.T) {
	mock := &llm.MockClient{Errors: []error{errors.New("rate limited")}}
	a, _ := newTestAssistant(t, mock)

	out := a.Chat(context.Background(), "hello", nil, "t1")

	assert.Equal(t, "❌ I encountered an error: rate limited", out)
	assert.Len(t, mock.Calls, 1)
}

func TestChatStepLimit(t *testing.T) {
	// Every response requests a non-terminating tool, so the loop can only
	// stop at the ceiling.
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{
			llm.ToolCallResponse([]string{"get_current_time_info"}, []string{"{}"}),
			llm.ToolCallResponse([]string{"get_current_time_info"}, []string{"{}"}),
			llm.ToolCallResponse([]string{"get_current_time_info"}, []string{"{}"}),
		},
	}
	a, _ := newTestAssistant(t, mock, WithMaxSteps(3))

	out := a.Chat(context.Background(), planningText, nil, "t1")

	assert.True(t, strings.HasPrefix(out, "❌ Error:"))
	assert.Contains(t, out, "sorry")
	// AGENT(1), TOOLS(2), AGENT(3), then the fourth step is refused.
	assert.Len(t, mock.Calls, 2)
}

func TestChatModeStickyAcrossLoop(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{
			llm.ToolCallResponse([]string{"get_current_time_info"}, []string{"{}"}),
			llm.TextResponse("done"),
		},
	}
	a, _ := newTestAssistant(t, mock)

	a.Chat(context.Background(), planningText, nil, "t1")

	// Both AGENT steps use the planning prompt even though the latest user
	// message never changes.
	require.Len(t, mock.Calls, 2)
	assert.Equal(t, prompts.PlanningAgent, mock.Calls[0].Messages[0].Content)
	assert.Equal(t, prompts.PlanningAgent, mock.Calls[1].Messages[0].Content)
}

func TestChatCoercesExternalHistory(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{llm.TextResponse("hi again")},
	}
	a, _ := newTestAssistant(t, mock)

	history := []HistoryEntry{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
		{Role: "system", Content: "should be dropped"},
	}
	a.Chat(context.Background(), "hello", history, "t1")

	require.Len(t, mock.Calls, 1)
	msgs := mock.Calls[0].Messages
	// system prompt + 2 coerced entries + new user message
	require.Len(t, msgs, 4)
	assert.Equal(t, "earlier question", msgs[1].Content)
	assert.Equal(t, "earlier answer", msgs[2].Content)
	assert.Equal(t, "hello", msgs[3].Content)
}

func TestCreatePlanFromTextForcesPlanning(t *testing.T) {
	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{llm.TextResponse("drafting")},
	}
	a, _ := newTestAssistant(t, mock)

	a.CreatePlanFromText(context.Background(), "just vibes")

	require.Len(t, mock.Calls, 1)
	msgs := mock.Calls[0].Messages
	assert.Equal(t, prompts.PlanningAgent, msgs[0].Content)
	assert.Equal(t, "Create a daily plan for: just vibes", msgs[len(msgs)-1].Content)
}

func TestPlanStatus(t *testing.T) {
	a, plans := newTestAssistant(t, &llm.MockClient{})

	assert.Equal(t, "📋 No active plans found. Create your first plan!", a.PlanStatus())

	_, err := plans.Save(&plan.Plan{
		PlanID: "plan_20260901_090000_abc123",
		Date:   "2026-09-01",
		Tasks: []plan.Task{
			{ID: "task_1", Status: plan.StatusCompleted},
			{ID: "task_2", Status: plan.StatusPending, EstimatedDuration: 45},
		},
	})
	require.NoError(t, err)

	status := a.PlanStatus()
	assert.Contains(t, status, "📊 Plan Summary for 2026-09-01: 1/2 tasks completed")
	assert.Contains(t, status, "✅ Completed: 1 | 🔄 In progress: 0 | ⏳ Pending: 1")
	assert.Contains(t, status, "📈 50.0% complete, 45 minutes remaining")
}

func TestListAvailableTools(t *testing.T) {
	a, _ := newTestAssistant(t, &llm.MockClient{})

	out := a.ListAvailableTools()
	assert.True(t, strings.HasPrefix(out, "🛠️ **Available Tools:**\n\n"))
	assert.Contains(t, out, "🔧 **create_daily_plan**:")
	assert.Contains(t, out, "🔧 **search_web**:")
}
