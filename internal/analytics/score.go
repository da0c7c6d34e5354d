package analytics

import (
	"math"
	"quadrant_planner_backend/internal/model"
	"time"
)

const (
	velocityDays      = 7
	consistencyDays   = 7
	velocityTolerance = 0.1
)

// 各项分数在总分中的权重，合计为 1
var scoreWeights = struct {
	task, goal, balance, consistency, staging float64
}{0.25, 0.2, 0.25, 0.15, 0.15}

// Velocity 截至 now 当天的最近 days 天完成数量，与之前 days 天对比。
// 变化不超过 10% 视为持平
func Velocity(tasks []model.Task, now time.Time, days int) model.CompletionVelocity {
	current := TrailingWindow(now, days)
	days = current.Days()
	previous := Window{
		Start: current.Start.AddDate(0, 0, -days),
		End:   current.Start.AddDate(0, 0, -1),
	}

	v := model.CompletionVelocity{Days: days}
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		day := StartOfDay(t.CompletedAt.In(now.Location()))
		switch {
		case previous.Contains(day):
			v.PreviousTasksCompleted++
		case current.Contains(day):
			v.TasksCompleted++
		}
	}

	v.AverageTasksPerDay = Round2(float64(v.TasksCompleted) / float64(days))
	cur, prev := float64(v.TasksCompleted), float64(v.PreviousTasksCompleted)
	switch {
	case cur > prev*(1+velocityTolerance):
		v.Trend = model.VelocityIncreasing
	case cur < prev*(1-velocityTolerance):
		v.Trend = model.VelocityDecreasing
	default:
		v.Trend = model.VelocityStable
	}
	return v
}

// Score 由已计算的指标得出综合评分。没有任何目标和任务时各项为 0
func Score(r model.MetricsReport) model.ProductivityScore {
	hasTasks := r.Quadrants.TotalActiveTasks > 0 || r.Productivity.OverallCompletionRate > 0
	if !hasTasks && len(r.Goals) == 0 {
		return model.ProductivityScore{
			Trend:           model.VelocityStable,
			Recommendations: []string{"Create your first goal to start tracking productivity."},
		}
	}

	s := model.ProductivityScore{
		TaskCompletion:    r.Productivity.OverallCompletionRate,
		GoalCompletion:    goalCompletionScore(r.Goals),
		QuadrantBalance:   balanceScore(r.Quadrants),
		Consistency:       Percent(min(r.Productivity.StreakDays, consistencyDays), consistencyDays),
		StagingEfficiency: 100,
		Trend:             r.Velocity.Trend,
	}
	if r.Staging.ItemsStaged > 0 {
		s.StagingEfficiency = r.Staging.ProcessingRate
	}
	if s.Trend == "" {
		s.Trend = model.VelocityStable
	}

	s.Overall = Round2(s.TaskCompletion*scoreWeights.task +
		s.GoalCompletion*scoreWeights.goal +
		s.QuadrantBalance*scoreWeights.balance +
		s.Consistency*scoreWeights.consistency +
		s.StagingEfficiency*scoreWeights.staging)
	s.Recommendations = scoreRecommendations(s, r)
	return s
}

// goalCompletionScore 有任务的未归档目标的平均完成率
func goalCompletionScore(goals []model.GoalStats) float64 {
	var sum float64
	var n int
	for _, g := range goals {
		if g.TotalTasks == 0 {
			continue
		}
		sum += g.CompletionRate
		n++
	}
	if n == 0 {
		return 0
	}
	return Round2(sum / float64(n))
}

// balanceScore 100 减去实际分布与推荐分布的总变差距离
func balanceScore(d model.QuadrantDistribution) float64 {
	if d.TotalActiveTasks == 0 {
		return 0
	}
	actual := map[model.Quadrant]float64{
		model.QuadrantQ1:      d.Q1Percentage,
		model.QuadrantQ2:      d.Q2Percentage,
		model.QuadrantQ3:      d.Q3Percentage,
		model.QuadrantQ4:      d.Q4Percentage,
		model.QuadrantStaging: d.StagingPercentage,
	}
	var diff float64
	for q, ideal := range IdealDistribution {
		diff += math.Abs(actual[q] - ideal)
	}
	return Round2(math.Max(0, 100-diff/2))
}

func scoreRecommendations(s model.ProductivityScore, r model.MetricsReport) []string {
	recs := []string{}
	if s.TaskCompletion < 50 {
		recs = append(recs, "Break large tasks into smaller steps so more of them get finished.")
	}
	if s.QuadrantBalance < 60 && r.Quadrants.TotalActiveTasks > 0 {
		recs = append(recs, "Plan ahead and move more work into Q2 to reduce urgent tasks.")
	}
	if s.Consistency < 50 {
		recs = append(recs, "Complete at least one task every day to build momentum.")
	}
	if s.StagingEfficiency < 50 {
		recs = append(recs, "Sort items out of the staging zone more often.")
	}
	if s.Trend == model.VelocityDecreasing {
		recs = append(recs, "Task completion has slowed this week. Review your priorities.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Keep up the good work.")
	}
	return recs
}
