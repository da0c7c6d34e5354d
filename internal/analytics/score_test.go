package analytics

import (
	"quadrant_planner_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func completedDaysAgo(id string, days ...int) []model.Task {
	tasks := make([]model.Task, 0, len(days))
	for _, d := range days {
		tasks = append(tasks, completed(task(id, model.QuadrantQ2), daysAgo(d)))
	}
	return tasks
}

func TestVelocity(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []model.Task
		current  int
		previous int
		perDay   float64
		trend    model.VelocityTrend
	}{
		{"no completions", nil, 0, 0, 0, model.VelocityStable},
		{"increasing", completedDaysAgo("a", 0, 1, 2, 8), 3, 1, 0.43, model.VelocityIncreasing},
		{"decreasing", completedDaysAgo("b", 0, 7, 8, 9, 10), 1, 4, 0.14, model.VelocityDecreasing},
		{"stable", completedDaysAgo("c", 1, 6, 7, 13), 2, 2, 0.29, model.VelocityStable},
		{"outside both windows", completedDaysAgo("d", 14, 30), 0, 0, 0, model.VelocityStable},
		{"first week of activity", completedDaysAgo("e", 3), 1, 0, 0.14, model.VelocityIncreasing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Velocity(tt.tasks, testNow, 7)
			assert.Equal(t, 7, v.Days)
			assert.Equal(t, tt.current, v.TasksCompleted)
			assert.Equal(t, tt.previous, v.PreviousTasksCompleted)
			assert.Equal(t, tt.perDay, v.AverageTasksPerDay)
			assert.Equal(t, tt.trend, v.Trend)
		})
	}
}

func TestVelocityUsesCallerTimezone(t *testing.T) {
	// UTC 03-05 20:00 在 UTC+8 已是 03-06，落在最近 7 天内
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, loc)
	tk := completed(task("a", model.QuadrantQ2), time.Date(2025, 3, 5, 20, 0, 0, 0, time.UTC))

	v := Velocity([]model.Task{tk}, now, 7)
	assert.Equal(t, 1, v.TasksCompleted)
	assert.Zero(t, v.PreviousTasksCompleted)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		report model.MetricsReport
		want   model.ProductivityScore
	}{
		{
			name:   "no data",
			report: model.MetricsReport{},
			want: model.ProductivityScore{
				Trend:           model.VelocityStable,
				Recommendations: []string{"Create your first goal to start tracking productivity."},
			},
		},
		{
			name: "balanced and consistent",
			report: model.MetricsReport{
				Goals: []model.GoalStats{{TotalTasks: 4, CompletionRate: 50}, {TotalTasks: 0}},
				Quadrants: model.QuadrantDistribution{
					Q1Count: 4, Q2Count: 12, Q3Count: 3, Q4Count: 1, TotalActiveTasks: 20,
					Q1Percentage: 20, Q2Percentage: 60, Q3Percentage: 15, Q4Percentage: 5,
				},
				Productivity: model.ProductivityMetrics{OverallCompletionRate: 80, StreakDays: 10},
				Velocity:     model.CompletionVelocity{Trend: model.VelocityIncreasing},
			},
			want: model.ProductivityScore{
				Overall:           85,
				GoalCompletion:    50,
				TaskCompletion:    80,
				QuadrantBalance:   100,
				Consistency:       100,
				StagingEfficiency: 100,
				Trend:             model.VelocityIncreasing,
				Recommendations:   []string{"Keep up the good work."},
			},
		},
		{
			name: "firefighting",
			report: model.MetricsReport{
				Quadrants:    model.QuadrantDistribution{Q1Count: 4, TotalActiveTasks: 4, Q1Percentage: 100},
				Staging:      model.StagingEfficiency{ItemsStaged: 4, ItemsProcessed: 1, ProcessingRate: 25},
				Productivity: model.ProductivityMetrics{OverallCompletionRate: 20},
				Velocity:     model.CompletionVelocity{Trend: model.VelocityDecreasing},
			},
			want: model.ProductivityScore{
				Overall:           13.75,
				TaskCompletion:    20,
				QuadrantBalance:   20,
				StagingEfficiency: 25,
				Trend:             model.VelocityDecreasing,
				Recommendations: []string{
					"Break large tasks into smaller steps so more of them get finished.",
					"Plan ahead and move more work into Q2 to reduce urgent tasks.",
					"Complete at least one task every day to build momentum.",
					"Sort items out of the staging zone more often.",
					"Task completion has slowed this week. Review your priorities.",
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.report))
		})
	}
}

func TestComputeScoreFromSnapshot(t *testing.T) {
	var tasks []model.Task
	for i, q := range []model.Quadrant{model.QuadrantQ2, model.QuadrantQ2, model.QuadrantQ2, model.QuadrantQ1, model.QuadrantQ3} {
		tasks = append(tasks, task(string(rune('a'+i)), q))
	}
	tasks = append(tasks, completed(task("done", model.QuadrantQ2), daysAgo(0)))

	r := Compute(Snapshot{Tasks: tasks}, testNow, 5)
	assert.Equal(t, 1, r.Velocity.TasksCompleted)
	assert.Equal(t, model.VelocityIncreasing, r.Score.Trend)
	assert.Equal(t, r.Productivity.OverallCompletionRate, r.Score.TaskCompletion)
	assert.Greater(t, r.Score.Overall, 0.0)
	assert.LessOrEqual(t, r.Score.Overall, 100.0)
}
