package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aixgo-dev/dayplan/internal/llm"
	"github.com/aixgo-dev/dayplan/internal/plan"
)

// TimeInfo is the structured result of get_current_time_info.
type TimeInfo struct {
	CurrentTime         string `json:"current_time"`
	CurrentDate         string `json:"current_date"`
	DayOfWeek           string `json:"day_of_week"`
	Timestamp           string `json:"timestamp"`
	RemainingHoursToday int    `json:"remaining_hours_today"`
	IsMorning           bool   `json:"is_morning"`
	IsAfternoon         bool   `json:"is_afternoon"`
	IsEvening           bool   `json:"is_evening"`
}

// TimeInfoAt computes the time facts for a given instant.
func TimeInfoAt(now time.Time) TimeInfo {
	return TimeInfo{
		CurrentTime:         now.Format("15:04"),
		CurrentDate:         now.Format("2006-01-02"),
		DayOfWeek:           now.Weekday().String(),
		Timestamp:           now.Format(time.RFC3339),
		RemainingHoursToday: 24 - now.Hour(),
		IsMorning:           now.Hour() < 12,
		IsAfternoon:         now.Hour() >= 12 && now.Hour() < 18,
		IsEvening:           now.Hour() >= 18,
	}
}

func (ti TimeInfo) timeOfDay() string {
	switch {
	case ti.IsMorning:
		return "Morning"
	case ti.IsAfternoon:
		return "Afternoon"
	default:
		return "Evening"
	}
}

type createPlanArgs struct {
	UserInput string `json:"user_input" description:"The user's description of what they want to accomplish today" validate:"required"`
}

type savePlanArgs struct {
	Plan plan.Plan `json:"plan" description:"The complete daily plan to persist" validate:"required"`
}

type loadPlanArgs struct {
	PlanFile string `json:"plan_file" description:"Storage location of the plan file" validate:"required"`
}

type updateStatusArgs struct {
	PlanFile  string `json:"plan_file" description:"Storage location of the plan file" validate:"required"`
	TaskID    string `json:"task_id" description:"Id of the task to update" validate:"required"`
	NewStatus string `json:"new_status" description:"New status: pending, in_progress, completed" validate:"required"`
}

type updateStatusLatestArgs struct {
	TaskID    string `json:"task_id" description:"Id of the task to update" validate:"required"`
	NewStatus string `json:"new_status" description:"New status: pending, in_progress, completed" validate:"required"`
}

type rescheduleLatestArgs struct {
	TaskID  string `json:"task_id" description:"Id of the task to reschedule" validate:"required"`
	NewTime string `json:"new_time" description:"New start time in HH:MM format" validate:"required"`
}

func registerPlanningTools(r *Registry, d Deps) {
	r.register(Tool{
		Name:        "get_current_time_info",
		Description: "Get current time and date information for planning",
		Schema:      &llm.Schema{Type: "object"},
		Handler: func(ctx context.Context, args json.RawMessage) string {
			data, err := json.MarshalIndent(TimeInfoAt(d.Now()), "", "  ")
			if err != nil {
				return Failf("Error getting time info: %v", err)
			}
			return string(data)
		},
	})

	r.register(Tool{
		Name:        CreatePlanTool,
		Description: "Create a structured daily plan based on user input using AI reasoning. Automatically gets current time information, creates a complete plan and saves it.",
		Schema:      schemaFor(createPlanArgs{}),
		Handler:     func(ctx context.Context, args json.RawMessage) string { return createDailyPlan(ctx, d, args) },
	})

	r.register(Tool{
		Name:        SaveTool,
		Description: "Save a daily plan to a JSON file",
		Schema:      schemaFor(savePlanArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) string {
			var in savePlanArgs
			if err := decodeArgs(args, &in); err != nil {
				return Failf("Error saving plan: %v", err)
			}
			location, err := d.Plans.Save(&in.Plan)
			if err != nil {
				return Failf("Error saving plan: %v", err)
			}
			return location
		},
	})

	r.register(Tool{
		Name:        "load_daily_plan",
		Description: "Load a daily plan from a JSON file",
		Schema:      schemaFor(loadPlanArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) string {
			var in loadPlanArgs
			if err := decodeArgs(args, &in); err != nil {
				return Failf("Error loading plan: %v", err)
			}
			p, err := d.Plans.Load(in.PlanFile)
			if err != nil {
				return Failf("Error loading plan: %v", err)
			}
			total := p.TotalTasks
			if total == 0 {
				total = len(p.Tasks)
			}
			date := p.Date
			if date == "" {
				date = "Unknown"
			}
			return fmt.Sprintf("✅ Loaded plan for %s with %d tasks", date, total)
		},
	})

	r.register(Tool{
		Name:        "list_saved_plans",
		Description: "List all saved daily plans",
		Schema:      &llm.Schema{Type: "object"},
		Handler: func(ctx context.Context, args json.RawMessage) string {
			summaries, err := d.Plans.List()
			if err != nil {
				return Failf("Error listing plans: %v", err)
			}
			if len(summaries) == 0 {
				return "No saved plans found."
			}
			var sb strings.Builder
			sb.WriteString("📋 Saved Plans:")
			for _, s := range summaries {
				fmt.Fprintf(&sb, "\n📅 %s - %d tasks (Created: %s) - File: %s",
					s.Date, s.TaskCount, s.CreatedAt, s.Location)
			}
			return sb.String()
		},
	})

	r.register(Tool{
		Name:        "update_task_status",
		Description: "Update the status of a specific task in a plan",
		Schema:      schemaFor(updateStatusArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) string {
			var in updateStatusArgs
			if err := decodeArgs(args, &in); err != nil {
				return Failf("Error updating task status: %v", err)
			}
			return updateStatus(d, in.PlanFile, in.TaskID, in.NewStatus)
		},
	})

	r.register(Tool{
		Name:        "update_task_status_latest",
		Description: "Update a task's status on the most recent plan without needing a file path",
		Schema:      schemaFor(updateStatusLatestArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) string {
			var in updateStatusLatestArgs
			if err := decodeArgs(args, &in); err != nil {
				return Failf("Error updating task status: %v", err)
			}
			_, location, err := d.Plans.Latest()
			if err != nil {
				return Failf("Error finding latest plan: %v", err)
			}
			if location == "" {
				return Failf("No plans found. Create a plan first!")
			}
			return updateStatus(d, location, in.TaskID, in.NewStatus)
		},
	})

	r.register(Tool{
		Name:        "reschedule_task_latest",
		Description: "Change a task's scheduled time (HH:MM) on the most recent plan",
		Schema:      schemaFor(rescheduleLatestArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) string {
			var in rescheduleLatestArgs
			if err := decodeArgs(args, &in); err != nil {
				return Failf("Error rescheduling task: %v", err)
			}
			_, location, err := d.Plans.Latest()
			if err != nil {
				return Failf("Error finding latest plan: %v", err)
			}
			if location == "" {
				return Failf("No plans found. Create a plan first!")
			}
			if err := d.Plans.RescheduleTask(location, in.TaskID, in.NewTime); err != nil {
				return Failf("Error rescheduling task: %v", err)
			}
			return fmt.Sprintf("✅ Task '%s' rescheduled to %s", in.TaskID, in.NewTime)
		},
	})

	r.register(Tool{
		Name:        "get_overdue_tasks",
		Description: "Summarize tasks on the latest plan whose scheduled time has passed",
		Schema:      &llm.Schema{Type: "object"},
		Handler: func(ctx context.Context, args json.RawMessage) string {
			return overdueTasks(d)
		},
	})
}

func updateStatus(d Deps, location, taskID, newStatus string) string {
	if err := d.Plans.UpdateTask(location, taskID, newStatus); err != nil {
		if errors.Is(err, plan.ErrTaskNotFound) {
			return Failf("Task with ID '%s' not found", taskID)
		}
		return Failf("Error updating task status: %v", err)
	}
	return fmt.Sprintf("✅ Task '%s' status updated to '%s'", taskID, newStatus)
}

func overdueTasks(d Deps) string {
	p, _, err := d.Plans.Latest()
	if err != nil {
		return Failf("Error finding latest plan: %v", err)
	}
	if p == nil {
		return Failf("No plans found. Create a plan first!")
	}

	nowHHMM := d.Now().Format("15:04")
	var overdue []string
	for _, t := range p.Tasks {
		if t.Status == plan.StatusCompleted || !plan.ValidTimeFormat(t.ScheduledTime) {
			continue
		}
		if t.ScheduledTime < nowHHMM {
			overdue = append(overdue, fmt.Sprintf("- %s (scheduled %s, %s)", t.Title, t.ScheduledTime, t.Status))
		}
	}
	if len(overdue) == 0 {
		return fmt.Sprintf("✅ No overdue tasks as of %s", nowHHMM)
	}
	return fmt.Sprintf("⏰ Overdue tasks as of %s:\n%s", nowHHMM, strings.Join(overdue, "\n"))
}

// createDailyPlan asks the LLM for a schema-constrained plan, finalizes it
// (plan id, timestamps, totals) and persists it.
func createDailyPlan(ctx context.Context, d Deps, args json.RawMessage) string {
	var in createPlanArgs
	if err := decodeArgs(args, &in); err != nil {
		return Failf("Error creating daily plan: %v", err)
	}

	now := d.Now()
	ti := TimeInfoAt(now)
	prompt := planningPrompt(in.UserInput, ti)

	var resp plan.PlannerResponse
	if err := llm.Structured(ctx, d.LLM, d.Model, prompt, &resp); err != nil {
		return Failf("Error creating daily plan: %v", err)
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "No message"
		}
		return Failf("Failed to create plan: %s", msg)
	}
	if resp.DailyPlan == nil {
		return fmt.Sprintf("✅ %s", resp.Message)
	}

	p := resp.DailyPlan
	p.PlanID = fmt.Sprintf("plan_%s_%s", now.Format("20060102_150405"), shortID())
	p.CreatedAt = now.Format(time.RFC3339)
	p.CurrentTime = ti.CurrentTime
	p.FillTotals()

	location, err := d.Plans.Save(p)
	if err != nil {
		return Failf("Error creating daily plan: %v", err)
	}
	return fmt.Sprintf("✅ Daily plan created successfully!\n\nPlan saved as: %s", location)
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

func planningPrompt(userInput string, ti TimeInfo) string {
	return fmt.Sprintf(`You are an expert AI planner. Create a detailed, time-organized daily plan based on the user's input.

Current Context:
- Current time: %s
- Date: %s (%s)
- Remaining hours today: %d
- Time of day: %s

User's Request: %s

CRITICAL INSTRUCTIONS:
1. You MUST return a response with success=true and a complete daily_plan object
2. Break down the user's request into specific tasks (each task needs id, title, description, priority, estimated_duration, scheduled_time, category, status='pending')
3. Assign realistic time estimates in minutes
4. Schedule tasks with specific times in HH:MM format
5. Include appropriate categories: 'work', 'personal', 'health', 'cooking', 'learning', etc.
6. Set priority as 'high', 'medium', or 'low'
7. Provide helpful planning notes`,
		ti.CurrentTime, ti.CurrentDate, ti.DayOfWeek, ti.RemainingHoursToday, ti.timeOfDay(), userInput)
}
