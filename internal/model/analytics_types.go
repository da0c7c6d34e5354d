package model

import "time"

// GoalStats 单个目标的任务统计（不含已归档目标）
type GoalStats struct {
	GoalID         string        `json:"goalId"`
	GoalTitle      string        `json:"goalTitle"`
	Category       GoalCategory  `json:"category"`
	Timeframe      GoalTimeframe `json:"timeframe"`
	Color          string        `json:"color,omitempty"`
	TotalTasks     int           `json:"totalTasks"`
	CompletedTasks int           `json:"completedTasks"`
	ActiveTasks    int           `json:"activeTasks"`
	CompletionRate float64       `json:"completionRate"`
	AverageTaskAge float64       `json:"averageTaskAge"` // 未完成任务的平均天数
	LastActivityAt *time.Time    `json:"lastActivityAt"`
	GoalCreatedAt  time.Time     `json:"goalCreatedAt"`
}

// QuadrantDistribution 未完成任务在各象限的分布
type QuadrantDistribution struct {
	Q1Count           int     `json:"q1Count"`
	Q2Count           int     `json:"q2Count"`
	Q3Count           int     `json:"q3Count"`
	Q4Count           int     `json:"q4Count"`
	StagingCount      int     `json:"stagingCount"`
	TotalActiveTasks  int     `json:"totalActiveTasks"`
	Q1Percentage      float64 `json:"q1Percentage"`
	Q2Percentage      float64 `json:"q2Percentage"`
	Q3Percentage      float64 `json:"q3Percentage"`
	Q4Percentage      float64 `json:"q4Percentage"`
	StagingPercentage float64 `json:"stagingPercentage"`
	Q2FocusPercentage float64 `json:"q2FocusPercentage"`
}

// OldestStagedItem staging 中停留最久的未完成任务
type OldestStagedItem struct {
	TaskID          string `json:"taskId"`
	Title           string `json:"title"`
	DaysSinceStaged int    `json:"daysSinceStaged"`
}

// StagingEfficiency staging 区处理效率
type StagingEfficiency struct {
	ItemsStaged         int               `json:"itemsStaged"`
	ItemsProcessed      int               `json:"itemsProcessed"`
	ProcessingRate      float64           `json:"processingRate"`
	AverageStagingHours float64           `json:"averageStagingHours"`
	CurrentCount        int               `json:"currentCount"`
	Capacity            int               `json:"capacity"`
	Utilization         float64           `json:"utilization"`
	OldestStagedItem    *OldestStagedItem `json:"oldestStagedItem,omitempty"`
}

// ProductivityMetrics 生产力指标
type ProductivityMetrics struct {
	TasksCreatedThisWeek   int     `json:"tasksCreatedThisWeek"`
	TasksCompletedThisWeek int     `json:"tasksCompletedThisWeek"`
	OverallCompletionRate  float64 `json:"overallCompletionRate"`
	Q2Focus                float64 `json:"q2Focus"`
	GoalBalance            float64 `json:"goalBalance"`
	StreakDays             int     `json:"streakDays"`
}

// OverdueTaskRef 逾期任务引用
type OverdueTaskRef struct {
	TaskID      string    `json:"taskId"`
	Title       string    `json:"title"`
	DueDate     time.Time `json:"dueDate"`
	DaysOverdue int       `json:"daysOverdue"`
}

// OverdueAnalysis 逾期任务分析
type OverdueAnalysis struct {
	TotalOverdue      int                  `json:"totalOverdue"`
	ByQuadrant        map[Quadrant]int     `json:"byQuadrant"`
	ByPriority        map[TaskPriority]int `json:"byPriority"`
	ByDays            map[string]int       `json:"byDays"`
	OldestOverdueTask *OverdueTaskRef      `json:"oldestOverdueTask,omitempty"`
}

// CategorySummary 按目标类别汇总
type CategorySummary struct {
	Category       GoalCategory `json:"category"`
	TotalGoals     int          `json:"totalGoals"`
	TotalTasks     int          `json:"totalTasks"`
	CompletedTasks int          `json:"completedTasks"`
	CompletionRate float64      `json:"completionRate"`
}

// TimeframeSummary 按目标周期汇总，包含已归档目标
type TimeframeSummary struct {
	Timeframe      GoalTimeframe `json:"timeframe"`
	TotalGoals     int           `json:"totalGoals"`
	ActiveGoals    int           `json:"activeGoals"`    // 未归档
	CompletedGoals int           `json:"completedGoals"` // 有任务且全部完成
	TotalTasks     int           `json:"totalTasks"`
	CompletedTasks int           `json:"completedTasks"`
	CompletionRate float64       `json:"completionRate"`
}

// PriorityAnalysis 按任务优先级汇总
type PriorityAnalysis struct {
	Priority              TaskPriority `json:"priority"`
	TotalTasks            int          `json:"totalTasks"`
	CompletedTasks        int          `json:"completedTasks"`
	OverdueTasks          int          `json:"overdueTasks"`
	CompletionRate        float64      `json:"completionRate"`
	AverageCompletionDays *float64     `json:"averageCompletionDays"`
}

type VelocityTrend string

const (
	VelocityIncreasing VelocityTrend = "increasing"
	VelocityStable     VelocityTrend = "stable"
	VelocityDecreasing VelocityTrend = "decreasing"
)

// CompletionVelocity 最近 Days 天完成任务的速度，与之前同样长度的区间对比
type CompletionVelocity struct {
	Days                   int           `json:"days"`
	TasksCompleted         int           `json:"tasksCompleted"`
	PreviousTasksCompleted int           `json:"previousTasksCompleted"`
	AverageTasksPerDay     float64       `json:"averageTasksPerDay"`
	Trend                  VelocityTrend `json:"trend"`
}

// ProductivityScore 0-100 的综合评分及各项分数
type ProductivityScore struct {
	Overall           float64       `json:"overall"`
	GoalCompletion    float64       `json:"goalCompletion"`
	TaskCompletion    float64       `json:"taskCompletion"`
	QuadrantBalance   float64       `json:"quadrantBalance"`
	Consistency       float64       `json:"consistency"`
	StagingEfficiency float64       `json:"stagingEfficiency"`
	Trend             VelocityTrend `json:"trend"`
	Recommendations   []string      `json:"recommendations"`
}

// MetricsReport 一次快照读取计算出的全部指标
type MetricsReport struct {
	GeneratedAt  time.Time            `json:"generatedAt"`
	Goals        []GoalStats          `json:"goals"`
	Quadrants    QuadrantDistribution `json:"quadrants"`
	Staging      StagingEfficiency    `json:"staging"`
	Productivity ProductivityMetrics  `json:"productivity"`
	Overdue      OverdueAnalysis      `json:"overdue"`
	Categories   []CategorySummary    `json:"categories"`
	Timeframes   []TimeframeSummary   `json:"timeframes"`
	Priorities   []PriorityAnalysis   `json:"priorities"`
	Velocity     CompletionVelocity   `json:"velocity"` // 最近 7 天
	Score        ProductivityScore    `json:"score"`
}

// TrendPoint 每日趋势
type TrendPoint struct {
	Date      string `json:"date"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
	Active    int    `json:"active"`
}

type InsightSeverity string

const (
	SeveritySuccess InsightSeverity = "success"
	SeverityWarning InsightSeverity = "warning"
	SeverityInfo    InsightSeverity = "info"
)

// Insight 规则生成的建议，ID 稳定，前端可据此记录“已忽略”状态
type Insight struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Severity    InsightSeverity `json:"severity"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Actionable  bool            `json:"actionable"`
}

// QuadrantAnalysis 象限分布与理想分布对比
type QuadrantAnalysis struct {
	Distribution      QuadrantDistribution `json:"distribution"`
	IdealDistribution map[Quadrant]float64 `json:"idealDistribution"`
	Recommendations   []string             `json:"recommendations"`
}

// Dashboard 分析面板
type Dashboard struct {
	Period    string        `json:"period"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Metrics   MetricsReport `json:"metrics"`
	Trends    []TrendPoint  `json:"trends"`
	Insights  []Insight     `json:"insights"`
}

// StagingZoneStatus staging 区当前状态
type StagingZoneStatus struct {
	CurrentCount       int               `json:"currentCount"`
	MaxCapacity        int               `json:"maxCapacity"`
	IsFull             bool              `json:"isFull"`
	OldestItem         *OldestStagedItem `json:"oldestItem,omitempty"`
	ProcessingReminder string            `json:"processingReminder,omitempty"`
}

type StagingZone struct {
	Status      StagingZoneStatus `json:"status"`
	Tasks       []Task            `json:"tasks"`
	Suggestions []string          `json:"suggestions"`
}

// TaskStats 任务统计
type TaskStats struct {
	TotalTasks           int              `json:"totalTasks"`
	CompletedTasks       int              `json:"completedTasks"`
	ActiveTasks          int              `json:"activeTasks"`
	OverdueTasks         int              `json:"overdueTasks"`
	StagingTasks         int              `json:"stagingTasks"`
	QuadrantDistribution map[Quadrant]int `json:"quadrantDistribution"`
}
