package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aixgo-dev/dayplan/internal/llm"
	"github.com/aixgo-dev/dayplan/internal/plan"
)

func TestTimeInfoAt(t *testing.T) {
	ti := TimeInfoAt(time.Date(2026, 9, 1, 14, 45, 0, 0, time.UTC))

	assert.Equal(t, "14:45", ti.CurrentTime)
	assert.Equal(t, "2026-09-01", ti.CurrentDate)
	assert.Equal(t, "Tuesday", ti.DayOfWeek)
	assert.Equal(t, 10, ti.RemainingHoursToday)
	assert.False(t, ti.IsMorning)
	assert.True(t, ti.IsAfternoon)
	assert.False(t, ti.IsEvening)

	evening := TimeInfoAt(time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC))
	assert.True(t, evening.IsEvening)
	assert.Equal(t, 4, evening.RemainingHoursToday)
}

func TestGetCurrentTimeInfoTool(t *testing.T) {
	r := NewRegistry(newTestDeps(t, nil))

	result := r.Execute(context.Background(), "get_current_time_info", "{}")

	var ti TimeInfo
	require.NoError(t, json.Unmarshal([]byte(result), &ti))
	assert.Equal(t, "09:30", ti.CurrentTime)
	assert.Equal(t, "Tuesday", ti.DayOfWeek)
	assert.True(t, ti.IsMorning)
}

func savedPlanLocation(t *testing.T, d Deps) string {
	t.Helper()
	p := &plan.Plan{
		PlanID: "plan_20260901_090000_abc123",
		Date:   "2026-09-01",
		Tasks: []plan.Task{
			{ID: "task_1", Title: "Deep work", Priority: plan.PriorityHigh, EstimatedDuration: 120, ScheduledTime: "09:00", Status: plan.StatusPending},
			{ID: "task_2", Title: "Walk", Priority: plan.PriorityLow, EstimatedDuration: 30, ScheduledTime: "16:00", Status: plan.StatusPending},
		},
	}
	location, err := d.Plans.Save(p)
	require.NoError(t, err)
	return location
}

func TestSaveDailyPlanTool(t *testing.T) {
	d := newTestDeps(t, nil)
	r := NewRegistry(d)

	args, err := json.Marshal(savePlanArgs{Plan: plan.Plan{
		PlanID: "plan_20260901_100000_def456",
		Date:   "2026-09-01",
		Tasks:  []plan.Task{{ID: "task_1", Title: "Ship release", Priority: plan.PriorityHigh, EstimatedDuration: 60, ScheduledTime: "10:00"}},
	}})
	require.NoError(t, err)

	result := r.Execute(context.Background(), "save_daily_plan", string(args))

	// Success is the bare storage location, no decoration.
	assert.False(t, IsFailure(result))
	assert.Contains(t, result, "plan_2026-09-01_093000.json")

	loaded, err := d.Plans.Load(result)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.TotalTasks)
}

func TestLoadDailyPlanTool(t *testing.T) {
	d := newTestDeps(t, nil)
	r := NewRegistry(d)
	location := savedPlanLocation(t, d)

	result := r.Execute(context.Background(), "load_daily_plan", fmt.Sprintf(`{"plan_file":%q}`, location))
	assert.Equal(t, "✅ Loaded plan for 2026-09-01 with 2 tasks", result)

	missing := r.Execute(context.Background(), "load_daily_plan", `{"plan_file":"plan_nope.json"}`)
	assert.True(t, IsFailure(missing))
	assert.Contains(t, missing, "Error loading plan")
}

func TestListSavedPlansTool(t *testing.T) {
	d := newTestDeps(t, nil)
	r := NewRegistry(d)

	empty := r.Execute(context.Background(), "list_saved_plans", "{}")
	assert.Equal(t, "No saved plans found.", empty)

	savedPlanLocation(t, d)
	result := r.Execute(context.Background(), "list_saved_plans", "{}")
	assert.Contains(t, result, "📋 Saved Plans:")
	assert.Contains(t, result, "📅 2026-09-01 - 2 tasks")
	assert.Contains(t, result, "File: ")
}

func TestUpdateTaskStatusTool(t *testing.T) {
	d := newTestDeps(t, nil)
	r := NewRegistry(d)
	location := savedPlanLocation(t, d)

	ok := r.Execute(context.Background(), "update_task_status",
		fmt.Sprintf(`{"plan_file":%q,"task_id":"task_1","new_status":"completed"}`, location))
	assert.Equal(t, "✅ Task 'task_1' status updated to 'completed'", ok)

	missing := r.Execute(context.Background(), "update_task_status",
		fmt.Sprintf(`{"plan_file":%q,"task_id":"task_99","new_status":"completed"}`, location))
	assert.Equal(t, "❌ Task with ID 'task_99' not found", missing)
}

func TestUpdateTaskStatusLatestTool(t *testing.T) {
	d := newTestDeps(t, nil)
	r := NewRegistry(d)

	noPlans := r.Execute(context.Background(), "update_task_status_latest",
		`{"task_id":"task_1","new_status":"completed"}`)
	assert.True(t, IsFailure(noPlans))

	location := savedPlanLocation(t, d)
	ok := r.Execute(context.Background(), "update_task_status_latest",
		`{"task_id":"task_1","new_status":"in_progress"}`)
	assert.Equal(t, "✅ Task 'task_1' status updated to 'in_progress'", ok)

	loaded, err := d.Plans.Load(location)
	require.NoError(t, err)
	assert.Equal(t, plan.StatusInProgress, loaded.Tasks[0].Status)
}

func TestRescheduleTaskLatestTool(t *testing.T) {
	d := newTestDeps(t, nil)
	r := NewRegistry(d)
	location := savedPlanLocation(t, d)

	ok := r.Execute(context.Background(), "reschedule_task_latest",
		`{"task_id":"task_2","new_time":"17:30"}`)
	assert.Equal(t, "✅ Task 'task_2' rescheduled to 17:30", ok)

	loaded, err := d.Plans.Load(location)
	require.NoError(t, err)
	assert.Equal(t, "17:30", loaded.Tasks[1].ScheduledTime)

	bad := r.Execute(context.Background(), "reschedule_task_latest",
		`{"task_id":"task_2","new_time":"26:00"}`)
	assert.True(t, IsFailure(bad))
}

func TestGetOverdueTasksTool(t *testing.T) {
	d := newTestDeps(t, nil)
	r := NewRegistry(d)

	noPlans := r.Execute(context.Background(), "get_overdue_tasks", "{}")
	assert.True(t, IsFailure(noPlans))

	savedPlanLocation(t, d)

	// Now is 09:30: task_1 (09:00) is overdue, task_2 (16:00) is not.
	result := r.Execute(context.Background(), "get_overdue_tasks", "{}")
	assert.Contains(t, result, "⏰ Overdue tasks as of 09:30")
	assert.Contains(t, result, "Deep work (scheduled 09:00, pending)")
	assert.NotContains(t, result, "Walk")
}

func TestGetOverdueTasksNoneOverdue(t *testing.T) {
	d := newTestDeps(t, nil)
	r := NewRegistry(d)

	p := &plan.Plan{
		PlanID: "plan_20260901_080000_aaa111",
		Date:   "2026-09-01",
		Tasks: []plan.Task{
			{ID: "task_1", Title: "Done already", ScheduledTime: "08:00", Status: plan.StatusCompleted},
			{ID: "task_2", Title: "Later", ScheduledTime: "18:00", Status: plan.StatusPending},
		},
	}
	_, err := d.Plans.Save(p)
	require.NoError(t, err)

	result := r.Execute(context.Background(), "get_overdue_tasks", "{}")
	assert.Equal(t, "✅ No overdue tasks as of 09:30", result)
}

func TestCreateDailyPlanTool(t *testing.T) {
	resp := plan.PlannerResponse{
		Success: true,
		Message: "Plan created",
		DailyPlan: &plan.Plan{
			PlanID: "placeholder",
			Date:   "2026-09-01",
			Tasks: []plan.Task{
				{ID: "task_1", Title: "Code review", Priority: plan.PriorityHigh, EstimatedDuration: 60, ScheduledTime: "10:00", Status: plan.StatusPending},
			},
		},
	}
	payload, err := json.Marshal(resp)
	require.NoError(t, err)

	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{llm.TextResponse(string(payload))},
	}
	d := newTestDeps(t, mock)
	r := NewRegistry(d)

	result := r.Execute(context.Background(), "create_daily_plan", `{"user_input":"review code in the morning"}`)

	assert.Contains(t, result, "✅ Daily plan created successfully!")
	assert.Contains(t, result, "Plan saved as: ")

	saved, _, err := d.Plans.Latest()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Regexp(t, `^plan_20260901_093000_[0-9a-f]{6}$`, saved.PlanID)
	assert.Equal(t, "09:30", saved.CurrentTime)
	assert.Equal(t, 1, saved.TotalTasks)

	// The planning prompt carries the time context.
	require.Len(t, mock.Calls, 1)
	prompt := mock.Calls[0].Messages[0].Content
	assert.Contains(t, prompt, "Current time: 09:30")
	assert.Contains(t, prompt, "review code in the morning")
}

func TestCreateDailyPlanFailure(t *testing.T) {
	payload, err := json.Marshal(plan.PlannerResponse{Success: false, Message: "too vague"})
	require.NoError(t, err)

	mock := &llm.MockClient{
		Responses: []openai.ChatCompletionResponse{llm.TextResponse(string(payload))},
	}
	r := NewRegistry(newTestDeps(t, mock))

	result := r.Execute(context.Background(), "create_daily_plan", `{"user_input":"do stuff"}`)
	assert.Equal(t, "❌ Failed to create plan: too vague", result)
}

func TestCreateDailyPlanLLMError(t *testing.T) {
	mock := &llm.MockClient{Errors: []error{assert.AnError}}
	r := NewRegistry(newTestDeps(t, mock))

	result := r.Execute(context.Background(), "create_daily_plan", `{"user_input":"plan my day"}`)
	assert.True(t, IsFailure(result))
	assert.Contains(t, result, "Error creating daily plan")
}
