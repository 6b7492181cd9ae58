// Package plan defines the daily plan data model and its file-based store.
// Plans are produced by the LLM's structured output, finalized by the
// orchestrator (ids, timestamps, totals) and persisted one JSON file per plan.
package plan

import (
	"strings"
	"time"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task is a single scheduled item inside a daily plan.
type Task struct {
	ID                string `json:"id" description:"Unique identifier for the task" validate:"required"`
	Title             string `json:"title" description:"Brief title of the task" validate:"required"`
	Description       string `json:"description" description:"Detailed description of what needs to be done"`
	Priority          string `json:"priority" description:"Priority level: high, medium, low" validate:"required"`
	EstimatedDuration int    `json:"estimated_duration" description:"Estimated duration in minutes" validate:"required"`
	ScheduledTime     string `json:"scheduled_time" description:"Suggested time to start the task (HH:MM format)" validate:"required"`
	Category          string `json:"category" description:"Category of the task (work, personal, health, etc.)"`
	Status            string `json:"status" description:"Status: pending, in_progress, completed"`
}

// Plan is a complete daily plan. Task order is the schedule order decided by
// the LLM; the store never re-sorts it.
type Plan struct {
	PlanID                 string `json:"plan_id" description:"Unique identifier for this plan" validate:"required"`
	Date                   string `json:"date" description:"Date for this plan (YYYY-MM-DD format)" validate:"required"`
	Tasks                  []Task `json:"tasks" description:"List of todo tasks" validate:"required"`
	CreatedAt              string `json:"created_at,omitempty" description:"When this plan was created (ISO timestamp)"`
	CurrentTime            string `json:"current_time,omitempty" description:"Current time when plan was created"`
	TotalTasks             int    `json:"total_tasks,omitempty" description:"Total number of tasks in the plan"`
	EstimatedTotalDuration int    `json:"estimated_total_duration,omitempty" description:"Total estimated duration in minutes"`
	PlanningNotes          string `json:"planning_notes,omitempty" description:"Reasoning and notes about the planning decisions"`
}

// PlannerResponse is the schema-constrained shape the LLM returns when asked
// to generate a plan via structured output.
type PlannerResponse struct {
	Success     bool           `json:"success" description:"Whether planning was successful" validate:"required"`
	DailyPlan   *Plan          `json:"daily_plan,omitempty" description:"The generated daily plan"`
	Message     string         `json:"message" description:"Human-readable message about the planning result" validate:"required"`
	Suggestions map[string]any `json:"suggestions,omitempty" description:"Additional suggestions or recommendations"`
}

// FillTotals computes total_tasks and estimated_total_duration when absent.
// Totals already present and non-zero are preserved unchanged.
func (p *Plan) FillTotals() {
	if p.TotalTasks == 0 {
		p.TotalTasks = len(p.Tasks)
	}
	if p.EstimatedTotalDuration == 0 {
		for _, t := range p.Tasks {
			p.EstimatedTotalDuration += t.EstimatedDuration
		}
	}
}

// TaskByID returns the first task with the given id. Duplicate ids are
// accepted at write time, so first match wins.
func (p *Plan) TaskByID(id string) (*Task, bool) {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i], true
		}
	}
	return nil, false
}

// IsSample reports whether the plan is a smoke-test or demo plan that must be
// excluded from "latest plan" lookups.
func (p *Plan) IsSample() bool {
	if p.PlanID == "plan_smoke_test" {
		return true
	}
	return strings.Contains(strings.ToLower(p.PlanningNotes), "storage smoke test")
}

// ValidTimeFormat reports whether s is a valid HH:MM 24-hour time.
func ValidTimeFormat(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Progress holds completion statistics for a plan.
type Progress struct {
	TotalTasks             int     `json:"total_tasks"`
	Completed              int     `json:"completed"`
	InProgress             int     `json:"in_progress"`
	Pending                int     `json:"pending"`
	CompletionPercentage   float64 `json:"completion_percentage"`
	EstimatedRemainingTime int     `json:"estimated_remaining_time"`
}

// CalculateProgress computes completion statistics. Remaining time sums the
// durations of every task that is not completed.
func (p *Plan) CalculateProgress() Progress {
	prog := Progress{TotalTasks: len(p.Tasks)}
	if prog.TotalTasks == 0 {
		return prog
	}

	for _, t := range p.Tasks {
		switch t.Status {
		case StatusCompleted:
			prog.Completed++
		case StatusInProgress:
			prog.InProgress++
		default:
			prog.Pending++
		}
		if t.Status != StatusCompleted {
			prog.EstimatedRemainingTime += t.EstimatedDuration
		}
	}

	pct := float64(prog.Completed) / float64(prog.TotalTasks) * 100
	// Round to one decimal place for display parity with summaries.
	prog.CompletionPercentage = float64(int(pct*10+0.5)) / 10
	return prog
}
