package orchestrator

import (
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aixgo-dev/dayplan/internal/plan"
	"github.com/aixgo-dev/dayplan/internal/prompts"
)

const noPreviousPlans = "📋 No previous plans found. Ready to create your first daily plan!"

// assembleContext builds the full message list for an LLM call: mode-specific
// system prompt, an optional prior-plan context message in planning mode, then
// the conversation history in original order. It only reads the plan store.
func assembleContext(s *Session, plans *plan.Store) []openai.ChatCompletionMessage {
	systemPrompt := prompts.GeneralChat
	if s.Mode == ModePlanning {
		systemPrompt = prompts.PlanningAgent
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(s.Messages)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	if s.Mode == ModePlanning {
		// The planning prompt tells the model the thread id is provided in
		// context, so the context message has to actually carry it.
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: fmt.Sprintf("%s\n\n🧵 Current thread_id: %s — pass it to every memory tool call.", planContext(plans), s.ThreadID),
		})
	}

	return append(msgs, s.Messages...)
}

// planContext renders the latest saved plan as conversational context, or a
// short notice when no plan exists yet.
func planContext(plans *plan.Store) string {
	if plans == nil {
		return noPreviousPlans
	}
	latest, _, err := plans.Latest()
	if err != nil {
		log.Printf("plan context lookup failed: %v", err)
		return noPreviousPlans
	}
	if latest == nil {
		return noPreviousPlans
	}

	return fmt.Sprintf(`📊 **Current Plan Context:**

%s

**Latest Plan Details:**
%s

You can reference this plan or create a new one based on the user's request.`,
		latest.Summary(), latest.FormatForDisplay())
}
