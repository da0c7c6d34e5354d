package analytics

import (
	"fmt"
	"quadrant_planner_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-03-12 是周三
var testNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func task(id string, q model.Quadrant) model.Task {
	t := model.Task{Quadrant: q, Title: "task " + id, Priority: model.PriorityMedium}
	t.ID = id
	t.CreatedAt = daysAgo(1)
	t.UpdatedAt = daysAgo(1)
	if q == model.QuadrantStaging {
		t.IsStaged = true
		t.StagedAt = ptr(daysAgo(1))
	}
	return t
}

func completed(t model.Task, at time.Time) model.Task {
	t.Completed = true
	t.CompletedAt = &at
	return t
}

func TestComputeEmptyCohort(t *testing.T) {
	r := Compute(Snapshot{}, testNow, 5)

	assert.Empty(t, r.Goals)
	assert.Equal(t, model.QuadrantDistribution{}, r.Quadrants)
	assert.Zero(t, r.Quadrants.Q2FocusPercentage)
	assert.Zero(t, r.Staging.ProcessingRate)
	assert.Zero(t, r.Staging.AverageStagingHours)
	assert.Nil(t, r.Staging.OldestStagedItem)
	assert.Zero(t, r.Productivity.OverallCompletionRate)
	assert.Equal(t, 100.0, r.Productivity.GoalBalance)
	assert.Zero(t, r.Productivity.StreakDays)
	assert.Zero(t, r.Overdue.TotalOverdue)
	assert.Empty(t, r.Categories)
	assert.Empty(t, r.Timeframes)
	assert.Len(t, r.Priorities, 4)
	assert.Equal(t, model.VelocityStable, r.Velocity.Trend)
	assert.Equal(t, 7, r.Velocity.Days)
	assert.Zero(t, r.Score.Overall)
}

func TestDistributionQ2Focus(t *testing.T) {
	var tasks []model.Task
	for i := 0; i < 4; i++ {
		tasks = append(tasks, task(fmt.Sprintf("q2-%d", i), model.QuadrantQ2))
	}
	for i := 0; i < 3; i++ {
		tasks = append(tasks, task(fmt.Sprintf("q1-%d", i), model.QuadrantQ1))
	}
	tasks = append(tasks,
		task("q3", model.QuadrantQ3),
		task("q4", model.QuadrantQ4),
		task("s", model.QuadrantStaging),
		completed(task("done", model.QuadrantQ2), daysAgo(0)),
	)

	d := Distribution(tasks)
	assert.Equal(t, 10, d.TotalActiveTasks)
	assert.Equal(t, 4, d.Q2Count)
	assert.Equal(t, 40.0, d.Q2FocusPercentage)
	assert.Equal(t, 30.0, d.Q1Percentage)
	assert.Equal(t, 10.0, d.StagingPercentage)
}

func TestDistributionRounding(t *testing.T) {
	tasks := []model.Task{
		task("a", model.QuadrantQ2),
		task("b", model.QuadrantQ1),
		task("c", model.QuadrantQ1),
	}
	d := Distribution(tasks)
	assert.Equal(t, 33.33, d.Q2FocusPercentage)
	assert.Equal(t, 66.67, d.Q1Percentage)
}

func TestGoalStats(t *testing.T) {
	goal := model.Goal{Title: "Run a marathon", Category: model.CategoryHealth, Timeframe: model.Timeframe6Months}
	goal.ID = "g1"
	archived := model.Goal{Title: "Old", Category: model.CategoryCareer, Archived: true}
	archived.ID = "g2"
	empty := model.Goal{Title: "Empty", Category: model.CategoryLearning}
	empty.ID = "g3"

	a := task("a", model.QuadrantQ2)
	a.GoalID = ptr("g1")
	a.CreatedAt = daysAgo(4)
	a.UpdatedAt = daysAgo(2)
	b := task("b", model.QuadrantQ1)
	b.GoalID = ptr("g1")
	b.CreatedAt = daysAgo(2)
	b.UpdatedAt = daysAgo(1)
	c := completed(task("c", model.QuadrantQ1), daysAgo(0))
	c.GoalID = ptr("g1")
	d := task("d", model.QuadrantQ1)
	d.GoalID = ptr("g2")

	stats := GoalStats([]model.Goal{goal, archived, empty}, []model.Task{a, b, c, d}, testNow)
	require.Len(t, stats, 2)

	g := stats[0]
	assert.Equal(t, "g1", g.GoalID)
	assert.Equal(t, 3, g.TotalTasks)
	assert.Equal(t, 1, g.CompletedTasks)
	assert.Equal(t, 2, g.ActiveTasks)
	assert.Equal(t, 33.33, g.CompletionRate)
	assert.Equal(t, 3.0, g.AverageTaskAge)
	require.NotNil(t, g.LastActivityAt)
	assert.Equal(t, daysAgo(1), *g.LastActivityAt)

	e := stats[1]
	assert.Equal(t, "g3", e.GoalID)
	assert.Zero(t, e.CompletionRate)
	assert.Zero(t, e.AverageTaskAge)
	assert.Nil(t, e.LastActivityAt)
}

func TestStagingEfficiency(t *testing.T) {
	processed := task("p", model.QuadrantQ2)
	processed.StagedAt = ptr(daysAgo(2))
	processed.OrganizedAt = ptr(daysAgo(2).Add(6 * time.Hour))

	processed2 := task("p2", model.QuadrantQ3)
	processed2.StagedAt = ptr(daysAgo(1))
	processed2.OrganizedAt = ptr(daysAgo(1).Add(2 * time.Hour))

	waiting := task("w", model.QuadrantStaging)
	waiting.StagedAt = ptr(daysAgo(6))

	doneInStaging := completed(task("d", model.QuadrantStaging), daysAgo(0))
	doneInStaging.StagedAt = ptr(daysAgo(10))

	never := task("n", model.QuadrantQ1)

	e := StagingEfficiency([]model.Task{processed, processed2, waiting, doneInStaging, never}, testNow, 5)
	assert.Equal(t, 4, e.ItemsStaged)
	assert.Equal(t, 2, e.ItemsProcessed)
	assert.Equal(t, 50.0, e.ProcessingRate)
	assert.Equal(t, 4.0, e.AverageStagingHours)
	assert.Equal(t, 1, e.CurrentCount)
	assert.Equal(t, 20.0, e.Utilization)

	require.NotNil(t, e.OldestStagedItem)
	assert.Equal(t, "w", e.OldestStagedItem.TaskID, "completed staged tasks are ignored")
	assert.Equal(t, 6, e.OldestStagedItem.DaysSinceStaged)
}

func TestOldestStagedTieBreak(t *testing.T) {
	at := daysAgo(2)
	a := task("b-id", model.QuadrantStaging)
	a.StagedAt = &at
	b := task("a-id", model.QuadrantStaging)
	b.StagedAt = &at
	c := task("c-id", model.QuadrantStaging)
	c.StagedAt = &at
	c.CreatedAt = daysAgo(3)

	oldest := OldestStaged([]model.Task{a, b, c}, testNow)
	require.NotNil(t, oldest)
	assert.Equal(t, "c-id", oldest.TaskID)

	oldest = OldestStaged([]model.Task{a, b}, testNow)
	require.NotNil(t, oldest)
	assert.Equal(t, "a-id", oldest.TaskID)
}

func TestDaysSinceStagedFallsBackToCreatedAt(t *testing.T) {
	tk := task("x", model.QuadrantStaging)
	tk.StagedAt = nil
	tk.CreatedAt = daysAgo(7)
	assert.Equal(t, 7, DaysSinceStaged(&tk, testNow))
}

func TestProductivity(t *testing.T) {
	monday := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	lastSunday := time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC)

	a := task("a", model.QuadrantQ1)
	a.CreatedAt = monday
	a.GoalID = ptr("g1")
	b := task("b", model.QuadrantQ2)
	b.CreatedAt = lastSunday
	b.GoalID = ptr("g1")
	c := task("c", model.QuadrantQ2)
	c.CreatedAt = lastSunday
	c.GoalID = ptr("g2")
	d := completed(task("d", model.QuadrantQ3), monday.Add(time.Hour))
	d.CreatedAt = lastSunday
	e := completed(task("e", model.QuadrantQ3), lastSunday)
	e.CreatedAt = lastSunday

	tasks := []model.Task{a, b, c, d, e}
	p := Productivity(tasks, Distribution(tasks), testNow)
	assert.Equal(t, 1, p.TasksCreatedThisWeek)
	assert.Equal(t, 1, p.TasksCompletedThisWeek)
	assert.Equal(t, 40.0, p.OverallCompletionRate)
	assert.Equal(t, 66.67, p.Q2Focus)
	assert.Equal(t, 33.33, p.GoalBalance)
	assert.Equal(t, 2, p.StreakDays)
}

func TestGoalBalanceSingleGoal(t *testing.T) {
	a := task("a", model.QuadrantQ1)
	a.GoalID = ptr("g1")
	b := task("b", model.QuadrantQ1)
	b.GoalID = ptr("g1")
	tasks := []model.Task{a, b, task("c", model.QuadrantQ1)}

	p := Productivity(tasks, Distribution(tasks), testNow)
	assert.Zero(t, p.GoalBalance)
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []int
		want int
	}{
		{"none", nil, 0},
		{"today only", []int{0}, 1},
		{"run ending today", []int{0, 1, 2}, 3},
		{"run ending yesterday", []int{1, 2, 3, 4}, 4},
		{"latest run only", []int{2, 3, 5, 6, 7}, 2},
		{"duplicates on a day", []int{0, 0, 1}, 2},
		{"outside window", []int{30, 31}, 0},
		{"capped at window", seq(0, 40), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tasks []model.Task
			for i, d := range tt.days {
				tasks = append(tasks, completed(task(fmt.Sprint(i), model.QuadrantQ1), daysAgo(d)))
			}
			assert.Equal(t, tt.want, Streak(tasks, testNow))
		})
	}
}

func seq(from, to int) []int {
	var out []int
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func TestOverdue(t *testing.T) {
	a := task("a", model.QuadrantQ1)
	a.DueDate = ptr(daysAgo(2))
	a.Priority = model.PriorityHigh
	b := task("b", model.QuadrantQ2)
	b.DueDate = ptr(daysAgo(5))
	c := task("c", model.QuadrantQ2)
	c.DueDate = ptr(daysAgo(12))
	future := task("f", model.QuadrantQ1)
	future.DueDate = ptr(testNow.Add(time.Hour))
	done := completed(task("d", model.QuadrantQ1), daysAgo(0))
	done.DueDate = ptr(daysAgo(20))

	a2 := Overdue([]model.Task{a, b, c, future, done}, testNow)
	assert.Equal(t, 3, a2.TotalOverdue)
	assert.Equal(t, 2, a2.ByQuadrant[model.QuadrantQ2])
	assert.Equal(t, 1, a2.ByPriority[model.PriorityHigh])
	assert.Equal(t, 2, a2.ByPriority[model.PriorityMedium])
	assert.Equal(t, map[string]int{"1-3 days": 1, "4-7 days": 1, "8+ days": 1}, a2.ByDays)
	require.NotNil(t, a2.OldestOverdueTask)
	assert.Equal(t, "c", a2.OldestOverdueTask.TaskID)
	assert.Equal(t, 12, a2.OldestOverdueTask.DaysOverdue)
}

func TestCategories(t *testing.T) {
	g1 := model.Goal{Category: model.CategoryHealth}
	g1.ID = "g1"
	g2 := model.Goal{Category: model.CategoryHealth}
	g2.ID = "g2"
	g3 := model.Goal{Category: model.CategoryCareer, Archived: true}
	g3.ID = "g3"

	a := completed(task("a", model.QuadrantQ1), daysAgo(0))
	a.GoalID = ptr("g1")
	b := task("b", model.QuadrantQ1)
	b.GoalID = ptr("g2")
	c := task("c", model.QuadrantQ1)
	c.GoalID = ptr("g3")

	cats := Categories([]model.Goal{g1, g2, g3}, []model.Task{a, b, c})
	require.Len(t, cats, 1)
	assert.Equal(t, model.CategoryHealth, cats[0].Category)
	assert.Equal(t, 2, cats[0].TotalGoals)
	assert.Equal(t, 2, cats[0].TotalTasks)
	assert.Equal(t, 50.0, cats[0].CompletionRate)
}

func TestPercentBounds(t *testing.T) {
	assert.Zero(t, Percent(0, 0))
	assert.Zero(t, Percent(3, 0))
	assert.Equal(t, 100.0, Percent(5, 5))
	assert.Equal(t, 14.29, Percent(1, 7))
}

func TestWeekStart(t *testing.T) {
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), WeekStart(testNow))
	sunday := time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), WeekStart(sunday))
}
