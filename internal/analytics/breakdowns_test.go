package analytics

import (
	"quadrant_planner_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeframes(t *testing.T) {
	short := model.Goal{Title: "Ship", Timeframe: model.Timeframe3Months}
	short.ID = "g1"
	done := model.Goal{Title: "Old", Timeframe: model.Timeframe3Months, Archived: true}
	done.ID = "g2"
	ongoing := model.Goal{Title: "Read", Timeframe: model.TimeframeOngoing}
	ongoing.ID = "g3"

	a := completed(task("a", model.QuadrantQ2), daysAgo(1))
	a.GoalID = ptr("g1")
	b := task("b", model.QuadrantQ1)
	b.GoalID = ptr("g1")
	c := completed(task("c", model.QuadrantQ2), daysAgo(2))
	c.GoalID = ptr("g2")
	loose := task("d", model.QuadrantQ3)

	got := Timeframes([]model.Goal{ongoing, short, done}, []model.Task{a, b, c, loose})
	require.Len(t, got, 2)
	assert.Equal(t, model.TimeframeSummary{
		Timeframe:      model.Timeframe3Months,
		TotalGoals:     2,
		ActiveGoals:    1,
		CompletedGoals: 1,
		TotalTasks:     3,
		CompletedTasks: 2,
		CompletionRate: 66.67,
	}, got[0])
	assert.Equal(t, model.TimeframeSummary{
		Timeframe:   model.TimeframeOngoing,
		TotalGoals:  1,
		ActiveGoals: 1,
	}, got[1])

	assert.Empty(t, Timeframes(nil, []model.Task{loose}))
}

func TestPriorityBreakdown(t *testing.T) {
	fast := completed(task("a", model.QuadrantQ1), daysAgo(1))
	fast.Priority = model.PriorityHigh
	fast.CreatedAt = daysAgo(3)
	slow := completed(task("b", model.QuadrantQ1), daysAgo(1))
	slow.Priority = model.PriorityHigh
	slow.CreatedAt = daysAgo(5)
	late := task("c", model.QuadrantQ1)
	late.Priority = model.PriorityHigh
	late.DueDate = ptr(daysAgo(1))
	low := task("d", model.QuadrantQ4)
	low.Priority = model.PriorityLow

	rows := PriorityBreakdown([]model.Task{fast, slow, late, low}, testNow)
	require.Len(t, rows, 4)

	tests := []struct {
		priority  model.TaskPriority
		total     int
		completed int
		overdue   int
		rate      float64
		avgDays   *float64
	}{
		{model.PriorityLow, 1, 0, 0, 0, nil},
		{model.PriorityMedium, 0, 0, 0, 0, nil},
		{model.PriorityHigh, 3, 2, 1, 66.67, ptr(3.0)},
		{model.PriorityUrgent, 0, 0, 0, 0, nil},
	}
	for i, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			row := rows[i]
			assert.Equal(t, tt.priority, row.Priority)
			assert.Equal(t, tt.total, row.TotalTasks)
			assert.Equal(t, tt.completed, row.CompletedTasks)
			assert.Equal(t, tt.overdue, row.OverdueTasks)
			assert.Equal(t, tt.rate, row.CompletionRate)
			assert.Equal(t, tt.avgDays, row.AverageCompletionDays)
		})
	}
}
