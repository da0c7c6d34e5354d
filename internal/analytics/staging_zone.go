package analytics

import (
	"fmt"
	"quadrant_planner_backend/internal/model"
	"time"
)

// StagingZone staging 区视图，staged 为该用户未完成的 staging 任务
func StagingZone(staged []model.Task, now time.Time, capacity int) model.StagingZone {
	count := len(staged)
	status := model.StagingZoneStatus{
		CurrentCount: count,
		MaxCapacity:  capacity,
		IsFull:       count >= capacity,
		OldestItem:   OldestStaged(staged, now),
	}

	switch {
	case count >= 3:
		status.ProcessingReminder = fmt.Sprintf("You have %d items staged. Consider organizing them into quadrants.", count)
	case status.OldestItem != nil && status.OldestItem.DaysSinceStaged > 5:
		status.ProcessingReminder = fmt.Sprintf("You have items staged for %d days. Time to organize them!", status.OldestItem.DaysSinceStaged)
	}

	suggestions := []string{}
	if count >= capacity-1 && count > 0 {
		suggestions = append(suggestions, "Your staging zone is almost full. Process some items to make room.")
	}
	if status.OldestItem != nil && status.OldestItem.DaysSinceStaged > 3 {
		suggestions = append(suggestions, "Consider organizing older staged items into appropriate quadrants.")
	}
	if count == 0 {
		suggestions = append(suggestions, "Stage quick thoughts here, then organize into quadrants.")
	}

	if staged == nil {
		staged = []model.Task{}
	}
	return model.StagingZone{Status: status, Tasks: staged, Suggestions: suggestions}
}

// TaskStats 任务数量统计
func TaskStats(tasks []model.Task, now time.Time) model.TaskStats {
	s := model.TaskStats{
		TotalTasks: len(tasks),
		QuadrantDistribution: map[model.Quadrant]int{
			model.QuadrantQ1: 0, model.QuadrantQ2: 0, model.QuadrantQ3: 0,
			model.QuadrantQ4: 0, model.QuadrantStaging: 0,
		},
	}
	for i := range tasks {
		t := &tasks[i]
		if t.Completed {
			s.CompletedTasks++
			continue
		}
		s.QuadrantDistribution[t.Quadrant]++
		if t.IsOverdue(now) {
			s.OverdueTasks++
		}
	}
	s.ActiveTasks = s.TotalTasks - s.CompletedTasks
	s.StagingTasks = s.QuadrantDistribution[model.QuadrantStaging]
	return s
}
