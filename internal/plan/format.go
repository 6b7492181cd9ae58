package plan

import (
	"fmt"
	"strings"
)

var statusGlyphs = map[string]string{
	StatusPending:    "⏳",
	StatusInProgress: "🔄",
	StatusCompleted:  "✅",
}

var priorityGlyphs = map[string]string{
	PriorityHigh:   "🔴",
	PriorityMedium: "🟡",
	PriorityLow:    "🟢",
}

func glyph(m map[string]string, key, fallback string) string {
	if g, ok := m[key]; ok {
		return g
	}
	return m[fallback]
}

// FormatForDisplay renders a plan for the chat interface: header with date and
// totals, then one block per task with status and priority glyphs.
func (p *Plan) FormatForDisplay() string {
	var sb strings.Builder

	total := p.EstimatedTotalDuration
	fmt.Fprintf(&sb, "\n📅 **Daily Plan for %s**\n", valueOr(p.Date, "Unknown"))
	fmt.Fprintf(&sb, "⏱️ **Total estimated time:** %d minutes (%dh %dm)\n", total, total/60, total%60)
	fmt.Fprintf(&sb, "📝 **Total tasks:** %d\n\n**Tasks Schedule:**\n", len(p.Tasks))

	for i, t := range p.Tasks {
		fmt.Fprintf(&sb, "\n%d. %s **%s** %s\n", i+1,
			glyph(statusGlyphs, t.Status, StatusPending),
			valueOr(t.Title, "Untitled"),
			glyph(priorityGlyphs, t.Priority, PriorityMedium))
		fmt.Fprintf(&sb, "   ⏰ **Time:** %s (%d min)\n", valueOr(t.ScheduledTime, "TBD"), t.EstimatedDuration)
		fmt.Fprintf(&sb, "   📂 **Category:** %s\n", valueOr(t.Category, "General"))
		fmt.Fprintf(&sb, "   📝 **Description:** %s\n", valueOr(t.Description, "No description"))
	}

	if p.PlanningNotes != "" {
		fmt.Fprintf(&sb, "\n💡 **Planning Notes:**\n%s", p.PlanningNotes)
	}

	return sb.String()
}

// Summary returns the one-line completion summary used as plan context.
func (p *Plan) Summary() string {
	completed := 0
	for _, t := range p.Tasks {
		if t.Status == StatusCompleted {
			completed++
		}
	}
	return fmt.Sprintf("📊 Plan Summary for %s: %d/%d tasks completed",
		valueOr(p.Date, "Unknown"), completed, len(p.Tasks))
}

// ExportMarkdown renders the plan as a markdown checklist document.
func (p *Plan) ExportMarkdown() string {
	var sb strings.Builder

	total := p.EstimatedTotalDuration
	fmt.Fprintf(&sb, "# Daily Plan - %s\n\n", valueOr(p.Date, "Unknown"))
	fmt.Fprintf(&sb, "**Total Estimated Time:** %dh %dm\n", total/60, total%60)
	fmt.Fprintf(&sb, "**Total Tasks:** %d\n\n## Tasks\n\n", len(p.Tasks))

	for _, t := range p.Tasks {
		box := "- [ ]"
		if t.Status == StatusCompleted {
			box = "- [x]"
		}
		fmt.Fprintf(&sb, "%s **%s** (%s)\n", box, valueOr(t.Title, "Untitled"),
			strings.ToUpper(valueOr(t.Priority, PriorityMedium)))
		fmt.Fprintf(&sb, "   - **Time:** %s (%d min)\n", valueOr(t.ScheduledTime, "TBD"), t.EstimatedDuration)
		fmt.Fprintf(&sb, "   - **Category:** %s\n", valueOr(t.Category, "General"))
		fmt.Fprintf(&sb, "   - **Description:** %s\n\n", valueOr(t.Description, "No description"))
	}

	if p.PlanningNotes != "" {
		fmt.Fprintf(&sb, "## Planning Notes\n\n%s\n", p.PlanningNotes)
	}

	return sb.String()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
