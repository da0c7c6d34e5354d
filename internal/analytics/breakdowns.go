package analytics

import (
	"quadrant_planner_backend/internal/model"
	"time"
)

// Timeframes 按目标周期汇总，只包含有目标的周期，顺序与 model.GoalTimeframes 一致
func Timeframes(goals []model.Goal, tasks []model.Task) []model.TimeframeSummary {
	type goalTasks struct {
		total, completed int
	}
	perGoal := make(map[string]*goalTasks, len(goals))
	for _, g := range goals {
		perGoal[g.ID] = &goalTasks{}
	}
	for _, t := range tasks {
		if t.GoalID == nil {
			continue
		}
		gt, ok := perGoal[*t.GoalID]
		if !ok {
			continue
		}
		gt.total++
		if t.Completed {
			gt.completed++
		}
	}

	summaries := make(map[model.GoalTimeframe]*model.TimeframeSummary)
	for _, g := range goals {
		s, ok := summaries[g.Timeframe]
		if !ok {
			s = &model.TimeframeSummary{Timeframe: g.Timeframe}
			summaries[g.Timeframe] = s
		}
		s.TotalGoals++
		if !g.Archived {
			s.ActiveGoals++
		}
		gt := perGoal[g.ID]
		if gt.total > 0 && gt.completed == gt.total {
			s.CompletedGoals++
		}
		s.TotalTasks += gt.total
		s.CompletedTasks += gt.completed
	}

	result := make([]model.TimeframeSummary, 0, len(summaries))
	for _, tf := range model.GoalTimeframes {
		if s, ok := summaries[tf]; ok {
			s.CompletionRate = Percent(s.CompletedTasks, s.TotalTasks)
			result = append(result, *s)
		}
	}
	return result
}

// PriorityBreakdown 每个优先级一行，没有任务的优先级也会输出。
// 平均完成天数只统计有 completed_at 的任务，没有时为 nil
func PriorityBreakdown(tasks []model.Task, now time.Time) []model.PriorityAnalysis {
	rows := make(map[model.TaskPriority]*model.PriorityAnalysis, len(model.Priorities))
	durations := make(map[model.TaskPriority][]time.Duration, len(model.Priorities))
	for _, p := range model.Priorities {
		rows[p] = &model.PriorityAnalysis{Priority: p}
	}

	for i := range tasks {
		t := &tasks[i]
		row, ok := rows[t.Priority]
		if !ok {
			continue
		}
		row.TotalTasks++
		if t.Completed {
			row.CompletedTasks++
			if t.CompletedAt != nil && !t.CompletedAt.Before(t.CreatedAt) {
				durations[t.Priority] = append(durations[t.Priority], t.CompletedAt.Sub(t.CreatedAt))
			}
		}
		if t.IsOverdue(now) {
			row.OverdueTasks++
		}
	}

	result := make([]model.PriorityAnalysis, 0, len(model.Priorities))
	for _, p := range model.Priorities {
		row := rows[p]
		row.CompletionRate = Percent(row.CompletedTasks, row.TotalTasks)
		if ds := durations[p]; len(ds) > 0 {
			var sum time.Duration
			for _, d := range ds {
				sum += d
			}
			avg := Round2(sum.Hours() / hoursPerDay / float64(len(ds)))
			row.AverageCompletionDays = &avg
		}
		result = append(result, *row)
	}
	return result
}
