package service

import (
	"context"
	"quadrant_planner_backend/internal/analytics"
	"quadrant_planner_backend/internal/config"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/repository"
	"quadrant_planner_backend/internal/util"
	"quadrant_planner_backend/pkg/monitoring"
	"quadrant_planner_backend/pkg/tracing"
	"slices"
	"time"
)

// AnalyticsService 读取快照后交给 analytics 包计算，只读
type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
	Limits        config.LimitsConfig
	Config        config.AnalyticsConfig
	Now           func() time.Time
}

func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepository,
	limits config.LimitsConfig,
	cfg config.AnalyticsConfig,
	now func() time.Time,
) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{
		AnalyticsRepo: analyticsRepo,
		Limits:        limits,
		Config:        cfg,
		Now:           now,
	}
}

// GetMetrics 全部指标，优先读取缓存
func (s *AnalyticsService) GetMetrics(ctx context.Context, userID string) (*model.MetricsReport, error) {
	version, cacheable := s.AnalyticsRepo.CacheVersion(ctx, userID)
	if cacheable {
		if report, ok := s.AnalyticsRepo.GetCachedReport(ctx, userID, version); ok {
			return report, nil
		}
	}

	ctx, span := tracing.Start(ctx, "analytics.GetMetrics", userID)
	snap, err := s.AnalyticsRepo.LoadSnapshot(ctx, userID, s.Limits.MaxTasks)
	if err != nil {
		tracing.End(span, err)
		return nil, err
	}

	report := s.compute(snap)
	tracing.End(span, nil)

	if cacheable {
		s.AnalyticsRepo.CacheReport(ctx, userID, version, &report)
	}
	return &report, nil
}

func (s *AnalyticsService) GetGoalStats(ctx context.Context, userID string) ([]model.GoalStats, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.Goals, nil
}

func (s *AnalyticsService) GetQuadrantDistribution(ctx context.Context, userID string) (*model.QuadrantDistribution, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &report.Quadrants, nil
}

// GetQuadrantAnalysis 与推荐分布对比并给出建议
func (s *AnalyticsService) GetQuadrantAnalysis(ctx context.Context, userID string) (*model.QuadrantAnalysis, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	analysis := analytics.AnalyzeQuadrants(report.Quadrants)
	return &analysis, nil
}

func (s *AnalyticsService) GetStagingEfficiency(ctx context.Context, userID string) (*model.StagingEfficiency, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &report.Staging, nil
}

func (s *AnalyticsService) GetProductivity(ctx context.Context, userID string) (*model.ProductivityMetrics, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &report.Productivity, nil
}

func (s *AnalyticsService) GetOverdueAnalysis(ctx context.Context, userID string) (*model.OverdueAnalysis, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &report.Overdue, nil
}

func (s *AnalyticsService) GetCategoryBreakdown(ctx context.Context, userID string) ([]model.CategorySummary, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.Categories, nil
}

func (s *AnalyticsService) GetTimeframeAnalysis(ctx context.Context, userID string) ([]model.TimeframeSummary, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.Timeframes, nil
}

func (s *AnalyticsService) GetPriorityAnalysis(ctx context.Context, userID string) ([]model.PriorityAnalysis, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.Priorities, nil
}

// GetProductivityScore 综合评分，趋势取最近 7 天的完成速度
func (s *AnalyticsService) GetProductivityScore(ctx context.Context, userID string) (*model.ProductivityScore, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &report.Score, nil
}

// GetCompletionVelocity 指定周期的完成速度，period 为空时取 30_days
func (s *AnalyticsService) GetCompletionVelocity(ctx context.Context, userID, period string) (*model.CompletionVelocity, error) {
	if period == "" {
		period = util.Period30Days
	}
	days := util.PeriodDays(period)
	if days == 0 {
		return nil, util.NewValidationError("period", "period must be one of 7_days 30_days 90_days 1_year")
	}

	ctx, span := tracing.Start(ctx, "analytics.GetCompletionVelocity", userID)
	snap, err := s.AnalyticsRepo.LoadSnapshot(ctx, userID, s.Limits.MaxTasks)
	tracing.End(span, err)
	if err != nil {
		return nil, err
	}

	velocity := analytics.Velocity(snap.Tasks, s.Now(), days)
	return &velocity, nil
}

// GetInsights 根据当前指标生成建议
func (s *AnalyticsService) GetInsights(ctx context.Context, userID string) ([]model.Insight, error) {
	report, err := s.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.Insights(*report), nil
}

// GetTrends 每日趋势，start/end 均为空时取最近 TrendDefaultDays 天
func (s *AnalyticsService) GetTrends(ctx context.Context, userID, startDate, endDate string) ([]model.TrendPoint, error) {
	w, err := s.window("", startDate, endDate)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.Start(ctx, "analytics.GetTrends", userID)
	snap, err := s.AnalyticsRepo.LoadSnapshot(ctx, userID, s.Limits.MaxTasks)
	tracing.End(span, err)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	points := slices.Collect(analytics.Trends(snap.Tasks, w))
	monitoring.AnalyticsDuration.WithLabelValues("trends").Observe(time.Since(start).Seconds())
	return points, nil
}

// GetDashboard 一次快照读取生成完整的分析面板
func (s *AnalyticsService) GetDashboard(ctx context.Context, userID, period, startDate, endDate string) (*model.Dashboard, error) {
	if period == "" && startDate == "" && endDate == "" {
		period = util.Period30Days
	}
	w, err := s.window(period, startDate, endDate)
	if err != nil {
		return nil, err
	}

	version, cacheable := s.AnalyticsRepo.CacheVersion(ctx, userID)
	ctx, span := tracing.Start(ctx, "analytics.GetDashboard", userID)
	snap, err := s.AnalyticsRepo.LoadSnapshot(ctx, userID, s.Limits.MaxTasks)
	if err != nil {
		tracing.End(span, err)
		return nil, err
	}

	report := s.compute(snap)
	start := time.Now()
	trends := slices.Collect(analytics.Trends(snap.Tasks, w))
	monitoring.AnalyticsDuration.WithLabelValues("trends").Observe(time.Since(start).Seconds())
	tracing.End(span, nil)

	if cacheable {
		s.AnalyticsRepo.CacheReport(ctx, userID, version, &report)
	}
	return &model.Dashboard{
		Period:    period,
		StartDate: analytics.DayKey(w.Start),
		EndDate:   analytics.DayKey(w.End),
		Metrics:   report,
		Trends:    trends,
		Insights:  analytics.Insights(report),
	}, nil
}

func (s *AnalyticsService) compute(snap analytics.Snapshot) model.MetricsReport {
	start := time.Now()
	report := analytics.Compute(snap, s.Now(), s.Limits.StagingCapacity)
	monitoring.AnalyticsDuration.WithLabelValues("metrics").Observe(time.Since(start).Seconds())
	return report
}

// window 解析统计区间：显式起止日期优先，其次是预设周期，最后是默认天数
func (s *AnalyticsService) window(period, startDate, endDate string) (analytics.Window, error) {
	now := s.Now()
	switch {
	case startDate != "" || endDate != "":
		if startDate == "" || endDate == "" {
			return analytics.Window{}, util.NewValidationError("start_date", "start_date and end_date must be provided together")
		}
		return analytics.ParseWindow(startDate, endDate, now.Location(), s.Config.TrendMaxDays)
	case period != "":
		days := util.PeriodDays(period)
		if days == 0 {
			return analytics.Window{}, util.NewValidationError("period", "period must be one of 7_days 30_days 90_days 1_year")
		}
		return analytics.TrailingWindow(now, days), nil
	default:
		return analytics.TrailingWindow(now, s.Config.TrendDefaultDays), nil
	}
}
