// Package intent decides, from conversational signal alone, whether the user
// wants a concrete schedule right now. The classifier is a deliberately
// simple, auditable keyword policy: false negatives fail safe (the assistant
// stays conversational) and false positives are self-correcting because the
// LLM produces the plan content either way.
package intent

import "strings"

var explicitPlanningIndicators = []string{
	"create a plan for",
	"make a plan for",
	"schedule my",
	"plan my day",
	"organize my day",
	"i need a schedule",
	"help me schedule",
	"i want to plan",
	"create my schedule",
	"divide the time",
	"help me divide",
	"split my time",
	"organize my time",
}

var activityIndicators = []string{
	"hour",
	"hours",
	"minutes",
	"am",
	"pm",
	"morning",
	"afternoon",
	"evening",
	"code",
	"coding",
	"exercise",
	"work",
	"study",
	"cook",
	"clean",
	"read",
	"meeting",
	"call",
	"project",
	"task",
	"break",
	"lunch",
	"dinner",
}

var conversationalPhrases = []string{
	"can you help",
	"do you help",
	"are you able",
	"what can you do",
	"how do you",
	"tell me about",
	"explain",
	"what is",
	"can i",
	"is it possible",
	"would you",
	"could you help",
	"can you plan",
}

var concreteSchedulingPhrases = []string{
	"schedule my",
	"create a detailed schedule",
	"specific times",
	"from 9am",
	"at 10am",
	"until 5pm",
	"9:00",
	"10:30",
	":00",
	":30",
	"am ",
	"pm ",
	"o'clock",
	"divide the time",
	"time properly",
	"split the time",
	"organize the time",
	"time block",
	"time allocation",
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// WantsPlan reports whether the latest user message asks for a concrete
// schedule. It inspects only that message, not the conversation history;
// an empty message is never a planning request.
//
// The decision is:
//
//	(concrete scheduling AND activities) OR
//	(explicit request AND activities AND detailed AND NOT conversational)
//
// Activity keywords are necessary in both arms, so casual questions about
// planning never trigger the tool-invoking planning flow.
func WantsPlan(latestUserText string) bool {
	content := strings.ToLower(strings.TrimSpace(latestUserText))
	if content == "" {
		return false
	}

	hasExplicitRequest := containsAny(content, explicitPlanningIndicators)
	hasActivities := containsAny(content, activityIndicators)
	isDetailed := len(strings.Fields(content)) >= 6
	isConversational := containsAny(content, conversationalPhrases)
	wantsConcreteSchedule := containsAny(content, concreteSchedulingPhrases)

	return (wantsConcreteSchedule && hasActivities) ||
		(hasExplicitRequest && hasActivities && isDetailed && !isConversational)
}
