// Package analytics 基于一次快照读取的数据计算统计指标、趋势和建议。
// 包内函数均为纯函数，不访问数据库，也不持有状态。
package analytics

import (
	"math"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/util"
	"sort"
	"time"
)

const (
	hoursPerDay = 24
	streakDays  = 30
)

// Snapshot 同一用户的目标与任务
type Snapshot struct {
	Goals []model.Goal
	Tasks []model.Task
}

// Compute 一次遍历快照，生成全部指标
func Compute(s Snapshot, now time.Time, capacity int) model.MetricsReport {
	dist := Distribution(s.Tasks)
	r := model.MetricsReport{
		GeneratedAt:  now,
		Goals:        GoalStats(s.Goals, s.Tasks, now),
		Quadrants:    dist,
		Staging:      StagingEfficiency(s.Tasks, now, capacity),
		Productivity: Productivity(s.Tasks, dist, now),
		Overdue:      Overdue(s.Tasks, now),
		Categories:   Categories(s.Goals, s.Tasks),
		Timeframes:   Timeframes(s.Goals, s.Tasks),
		Priorities:   PriorityBreakdown(s.Tasks, now),
		Velocity:     Velocity(s.Tasks, now, velocityDays),
	}
	r.Score = Score(r)
	return r
}

// GoalStats 每个未归档目标的任务统计，顺序与 goals 一致
func GoalStats(goals []model.Goal, tasks []model.Task, now time.Time) []model.GoalStats {
	byGoal := make(map[string][]*model.Task)
	for i := range tasks {
		if tasks[i].GoalID != nil {
			byGoal[*tasks[i].GoalID] = append(byGoal[*tasks[i].GoalID], &tasks[i])
		}
	}

	stats := make([]model.GoalStats, 0, len(goals))
	for _, g := range goals {
		if g.Archived {
			continue
		}
		st := model.GoalStats{
			GoalID:        g.ID,
			GoalTitle:     g.Title,
			Category:      g.Category,
			Timeframe:     g.Timeframe,
			Color:         g.Color,
			GoalCreatedAt: g.CreatedAt,
		}

		var ageHours float64
		for _, t := range byGoal[g.ID] {
			st.TotalTasks++
			if t.Completed {
				st.CompletedTasks++
				continue
			}
			st.ActiveTasks++
			ageHours += now.Sub(t.CreatedAt).Hours()
			if st.LastActivityAt == nil || t.UpdatedAt.After(*st.LastActivityAt) {
				updated := t.UpdatedAt
				st.LastActivityAt = &updated
			}
		}
		st.CompletionRate = Percent(st.CompletedTasks, st.TotalTasks)
		if st.ActiveTasks > 0 {
			st.AverageTaskAge = Round2(ageHours / hoursPerDay / float64(st.ActiveTasks))
		}
		stats = append(stats, st)
	}
	return stats
}

// Distribution 未完成任务的象限分布
func Distribution(tasks []model.Task) model.QuadrantDistribution {
	var d model.QuadrantDistribution
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		switch t.Quadrant {
		case model.QuadrantQ1:
			d.Q1Count++
		case model.QuadrantQ2:
			d.Q2Count++
		case model.QuadrantQ3:
			d.Q3Count++
		case model.QuadrantQ4:
			d.Q4Count++
		case model.QuadrantStaging:
			d.StagingCount++
		default:
			continue
		}
		d.TotalActiveTasks++
	}

	d.Q1Percentage = Percent(d.Q1Count, d.TotalActiveTasks)
	d.Q2Percentage = Percent(d.Q2Count, d.TotalActiveTasks)
	d.Q3Percentage = Percent(d.Q3Count, d.TotalActiveTasks)
	d.Q4Percentage = Percent(d.Q4Count, d.TotalActiveTasks)
	d.StagingPercentage = Percent(d.StagingCount, d.TotalActiveTasks)
	d.Q2FocusPercentage = d.Q2Percentage
	return d
}

// StagingEfficiency staging 区处理效率
func StagingEfficiency(tasks []model.Task, now time.Time, capacity int) model.StagingEfficiency {
	e := model.StagingEfficiency{Capacity: capacity}

	var stagingHours float64
	var timed int
	for _, t := range tasks {
		if t.StagedAt != nil || t.Quadrant == model.QuadrantStaging {
			e.ItemsStaged++
		}
		if t.OrganizedAt != nil {
			e.ItemsProcessed++
			if t.StagedAt != nil && !t.OrganizedAt.Before(*t.StagedAt) {
				stagingHours += t.OrganizedAt.Sub(*t.StagedAt).Hours()
				timed++
			}
		}
		if t.OccupiesStagingSlot() {
			e.CurrentCount++
		}
	}

	e.ProcessingRate = Percent(e.ItemsProcessed, e.ItemsStaged)
	if timed > 0 {
		e.AverageStagingHours = Round2(stagingHours / float64(timed))
	}
	e.Utilization = Percent(e.CurrentCount, capacity)
	e.OldestStagedItem = OldestStaged(tasks, now)
	return e
}

// OldestStaged 停留最久的未完成 staging 任务；
// staged_at 相同时依次比较 created_at 和 id
func OldestStaged(tasks []model.Task, now time.Time) *model.OldestStagedItem {
	var oldest *model.Task
	for i := range tasks {
		t := &tasks[i]
		if !t.OccupiesStagingSlot() {
			continue
		}
		if oldest == nil || stagedBefore(t, oldest) {
			oldest = t
		}
	}
	if oldest == nil {
		return nil
	}
	return &model.OldestStagedItem{
		TaskID:          oldest.ID,
		Title:           oldest.Title,
		DaysSinceStaged: DaysSinceStaged(oldest, now),
	}
}

func stagedBefore(a, b *model.Task) bool {
	sa, sb := stagedRef(a), stagedRef(b)
	if !sa.Equal(sb) {
		return sa.Before(sb)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func stagedRef(t *model.Task) time.Time {
	if t.StagedAt != nil {
		return *t.StagedAt
	}
	return t.CreatedAt
}

// DaysSinceStaged 进入 staging 后经过的整天数，缺少 staged_at 时按创建时间计算
func DaysSinceStaged(t *model.Task, now time.Time) int {
	return wholeDays(now.Sub(stagedRef(t)))
}

// Productivity 生产力指标，周一为一周的开始
func Productivity(tasks []model.Task, dist model.QuadrantDistribution, now time.Time) model.ProductivityMetrics {
	p := model.ProductivityMetrics{Q2Focus: dist.Q2FocusPercentage}
	weekStart := WeekStart(now)

	var completed int
	perGoal := make(map[string]int)
	var assigned int
	for _, t := range tasks {
		if !t.CreatedAt.Before(weekStart) {
			p.TasksCreatedThisWeek++
		}
		if t.Completed {
			completed++
		}
		if t.CompletedAt != nil && !t.CompletedAt.Before(weekStart) {
			p.TasksCompletedThisWeek++
		}
		if !t.Completed && t.GoalID != nil {
			perGoal[*t.GoalID]++
			assigned++
		}
	}

	p.OverallCompletionRate = Percent(completed, len(tasks))
	p.GoalBalance = goalBalance(perGoal, assigned)
	p.StreakDays = Streak(tasks, now)
	return p
}

func goalBalance(perGoal map[string]int, assigned int) float64 {
	if assigned == 0 {
		return 100
	}
	var top int
	for _, n := range perGoal {
		if n > top {
			top = n
		}
	}
	return Round2(100 - float64(top)/float64(assigned)*100)
}

// Streak 最近一个有完成任务的日期往前连续有完成任务的天数，
// 只看截至今天的最近 30 个自然日
func Streak(tasks []model.Task, now time.Time) int {
	today := StartOfDay(now)
	first := today.AddDate(0, 0, -(streakDays - 1))

	days := make(map[string]bool)
	var latest time.Time
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		day := StartOfDay(t.CompletedAt.In(now.Location()))
		if day.Before(first) || day.After(today) {
			continue
		}
		days[DayKey(day)] = true
		if day.After(latest) {
			latest = day
		}
	}
	if len(days) == 0 {
		return 0
	}

	streak := 0
	for d := latest; !d.Before(first) && days[DayKey(d)]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// Overdue 逾期任务分析
func Overdue(tasks []model.Task, now time.Time) model.OverdueAnalysis {
	a := model.OverdueAnalysis{
		ByQuadrant: make(map[model.Quadrant]int),
		ByPriority: make(map[model.TaskPriority]int),
		ByDays:     make(map[string]int),
	}

	var oldest *model.Task
	for i := range tasks {
		t := &tasks[i]
		if !t.IsOverdue(now) {
			continue
		}
		a.TotalOverdue++
		a.ByQuadrant[t.Quadrant]++
		a.ByPriority[t.Priority]++
		a.ByDays[overdueBucket(wholeDays(now.Sub(*t.DueDate)))]++
		if oldest == nil || t.DueDate.Before(*oldest.DueDate) ||
			(t.DueDate.Equal(*oldest.DueDate) && t.ID < oldest.ID) {
			oldest = t
		}
	}

	if oldest != nil {
		a.OldestOverdueTask = &model.OverdueTaskRef{
			TaskID:      oldest.ID,
			Title:       oldest.Title,
			DueDate:     *oldest.DueDate,
			DaysOverdue: wholeDays(now.Sub(*oldest.DueDate)),
		}
	}
	return a
}

func overdueBucket(days int) string {
	switch {
	case days <= 3:
		return "1-3 days"
	case days <= 7:
		return "4-7 days"
	default:
		return "8+ days"
	}
}

// Categories 按目标类别汇总，只包含有未归档目标的类别
func Categories(goals []model.Goal, tasks []model.Task) []model.CategorySummary {
	categoryOf := make(map[string]model.GoalCategory)
	summaries := make(map[model.GoalCategory]*model.CategorySummary)
	for _, g := range goals {
		if g.Archived {
			continue
		}
		categoryOf[g.ID] = g.Category
		s, ok := summaries[g.Category]
		if !ok {
			s = &model.CategorySummary{Category: g.Category}
			summaries[g.Category] = s
		}
		s.TotalGoals++
	}

	for _, t := range tasks {
		if t.GoalID == nil {
			continue
		}
		c, ok := categoryOf[*t.GoalID]
		if !ok {
			continue
		}
		s := summaries[c]
		s.TotalTasks++
		if t.Completed {
			s.CompletedTasks++
		}
	}

	result := make([]model.CategorySummary, 0, len(summaries))
	for _, c := range model.GoalCategories {
		if s, ok := summaries[c]; ok {
			s.CompletionRate = Percent(s.CompletedTasks, s.TotalTasks)
			result = append(result, *s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalTasks > result[j].TotalTasks
	})
	return result
}

// Percent n/total*100，保留两位小数，total 为 0 时返回 0
func Percent(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(n) / float64(total) * 100)
}

func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

func wholeDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Hours()) / hoursPerDay
}

// StartOfDay t 所在时区的零点
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart t 所在周的周一零点
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func DayKey(t time.Time) string {
	return t.Format(util.DateFormat)
}
