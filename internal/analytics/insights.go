package analytics

import (
	"fmt"
	"quadrant_planner_backend/internal/model"
)

// Facts 规则判断所需的数值，全部来自 MetricsReport
type Facts struct {
	ActiveTasks       int
	Q2FocusPercentage float64
	StagingCount      int
	OverdueCount      int
	MaxStagedDays     int
}

func FactsFrom(r model.MetricsReport) Facts {
	f := Facts{
		ActiveTasks:       r.Quadrants.TotalActiveTasks,
		Q2FocusPercentage: r.Quadrants.Q2FocusPercentage,
		StagingCount:      r.Quadrants.StagingCount,
		OverdueCount:      r.Overdue.TotalOverdue,
	}
	if r.Staging.OldestStagedItem != nil {
		f.MaxStagedDays = r.Staging.OldestStagedItem.DaysSinceStaged
	}
	return f
}

// Rule 一条独立的建议规则
type Rule struct {
	ID         string
	Type       string
	Severity   model.InsightSeverity
	Title      string
	Actionable bool
	Match      func(Facts) bool
	Describe   func(Facts) string
}

func (r Rule) Insight(f Facts) model.Insight {
	return model.Insight{
		ID:          r.ID,
		Type:        r.Type,
		Severity:    r.Severity,
		Title:       r.Title,
		Description: r.Describe(f),
		Actionable:  r.Actionable,
	}
}

// Rules 固定顺序的规则列表
var Rules = []Rule{
	{
		ID:       "q2-focus-good",
		Type:     "quadrant",
		Severity: model.SeveritySuccess,
		Title:    "Great Q2 focus",
		Match: func(f Facts) bool {
			return f.ActiveTasks > 0 && f.Q2FocusPercentage >= 30
		},
		Describe: func(f Facts) string {
			return fmt.Sprintf("%.2f%% of your active tasks are important but not urgent. Keep investing in long-term work.", f.Q2FocusPercentage)
		},
	},
	{
		ID:         "q2-focus-low",
		Type:       "quadrant",
		Severity:   model.SeverityWarning,
		Title:      "Low Q2 focus",
		Actionable: true,
		Match: func(f Facts) bool {
			return f.ActiveTasks > 0 && f.Q2FocusPercentage < 20
		},
		Describe: func(f Facts) string {
			return fmt.Sprintf("Only %.2f%% of your active tasks are important but not urgent. Schedule time for planning and prevention.", f.Q2FocusPercentage)
		},
	},
	{
		ID:         "staging-overflow",
		Type:       "staging",
		Severity:   model.SeverityInfo,
		Title:      "Staging zone filling up",
		Actionable: true,
		Match: func(f Facts) bool {
			return f.StagingCount > 3
		},
		Describe: func(f Facts) string {
			return fmt.Sprintf("You have %s waiting in staging. Organize them into quadrants before the zone is full.", plural(f.StagingCount, "item"))
		},
	},
	{
		ID:         "overdue-tasks",
		Type:       "deadline",
		Severity:   model.SeverityWarning,
		Title:      "Overdue tasks",
		Actionable: true,
		Match: func(f Facts) bool {
			return f.OverdueCount > 0
		},
		Describe: func(f Facts) string {
			return fmt.Sprintf("You have %s past the due date. Reschedule or complete them.", plural(f.OverdueCount, "task"))
		},
	},
	{
		ID:         "long-staged",
		Type:       "staging",
		Severity:   model.SeverityInfo,
		Title:      "Items waiting in staging",
		Actionable: true,
		Match: func(f Facts) bool {
			return f.MaxStagedDays > 5
		},
		Describe: func(f Facts) string {
			return fmt.Sprintf("An item has been in staging for %s. Time to decide where it belongs.", plural(f.MaxStagedDays, "day"))
		},
	},
}

// Evaluate 依次检查每条规则，输出全部命中的建议
func Evaluate(rules []Rule, f Facts) []model.Insight {
	insights := make([]model.Insight, 0, len(rules))
	for _, r := range rules {
		if r.Match(f) {
			insights = append(insights, r.Insight(f))
		}
	}
	return insights
}

// Insights 使用默认规则生成建议
func Insights(r model.MetricsReport) []model.Insight {
	return Evaluate(Rules, FactsFrom(r))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// IdealDistribution 推荐的象限比例
var IdealDistribution = map[model.Quadrant]float64{
	model.QuadrantQ1:      20,
	model.QuadrantQ2:      60,
	model.QuadrantQ3:      15,
	model.QuadrantQ4:      5,
	model.QuadrantStaging: 0,
}

// AnalyzeQuadrants 对比当前分布与推荐比例，没有未完成任务时不给出建议
func AnalyzeQuadrants(d model.QuadrantDistribution) model.QuadrantAnalysis {
	ideal := make(map[model.Quadrant]float64, len(IdealDistribution))
	for q, v := range IdealDistribution {
		ideal[q] = v
	}
	a := model.QuadrantAnalysis{
		Distribution:      d,
		IdealDistribution: ideal,
		Recommendations:   []string{},
	}
	if d.TotalActiveTasks == 0 {
		return a
	}

	if d.Q1Percentage > 30 {
		a.Recommendations = append(a.Recommendations, "You have too many urgent and important tasks. Focus on prevention and planning.")
	}
	if d.Q2Percentage < 40 {
		a.Recommendations = append(a.Recommendations, "Increase focus on important but not urgent tasks (Q2) for better long-term results.")
	}
	if d.Q3Percentage > 25 {
		a.Recommendations = append(a.Recommendations, "Too many urgent but unimportant tasks. Consider delegation or elimination.")
	}
	if d.Q4Percentage > 10 {
		a.Recommendations = append(a.Recommendations, "Reduce time-wasting activities in Q4. Focus energy elsewhere.")
	}
	if d.StagingPercentage > 20 {
		a.Recommendations = append(a.Recommendations, "High staging utilization. Process staged items into appropriate quadrants.")
	}
	if len(a.Recommendations) == 0 {
		a.Recommendations = append(a.Recommendations, "Great quadrant balance! Maintain this distribution for optimal productivity.")
	}
	return a
}
