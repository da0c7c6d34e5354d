package controller

import (
	"quadrant_planner_backend/internal/service"
	"quadrant_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary 全部指标
// @Description 目标统计、象限分布、staging 效率、生产力、逾期与类别汇总
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.MetricsReport}
// @Router /analytics/metrics [get]
func (c *AnalyticsController) GetMetrics(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	report, err := c.AnalyticsService.GetMetrics(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary 目标统计
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.GoalStats}
// @Router /analytics/goals [get]
func (c *AnalyticsController) GetGoalStats(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	stats, err := c.AnalyticsService.GetGoalStats(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary 象限分布
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.QuadrantDistribution}
// @Router /analytics/quadrants [get]
func (c *AnalyticsController) GetQuadrantDistribution(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	dist, err := c.AnalyticsService.GetQuadrantDistribution(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, dist)
}

// @Summary 象限分析
// @Description 与推荐分布对比并给出建议
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.QuadrantAnalysis}
// @Router /analytics/quadrants/analysis [get]
func (c *AnalyticsController) GetQuadrantAnalysis(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	analysis, err := c.AnalyticsService.GetQuadrantAnalysis(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, analysis)
}

// @Summary staging 效率
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.StagingEfficiency}
// @Router /analytics/staging [get]
func (c *AnalyticsController) GetStagingEfficiency(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	eff, err := c.AnalyticsService.GetStagingEfficiency(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, eff)
}

// @Summary 生产力指标
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ProductivityMetrics}
// @Router /analytics/productivity [get]
func (c *AnalyticsController) GetProductivity(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	metrics, err := c.AnalyticsService.GetProductivity(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, metrics)
}

// @Summary 逾期分析
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.OverdueAnalysis}
// @Router /analytics/overdue [get]
func (c *AnalyticsController) GetOverdueAnalysis(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	overdue, err := c.AnalyticsService.GetOverdueAnalysis(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, overdue)
}

// @Summary 类别汇总
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CategorySummary}
// @Router /analytics/categories [get]
func (c *AnalyticsController) GetCategoryBreakdown(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	categories, err := c.AnalyticsService.GetCategoryBreakdown(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// @Summary 周期汇总
// @Description 按目标周期汇总目标与任务，包含已归档目标
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TimeframeSummary}
// @Router /analytics/timeframes [get]
func (c *AnalyticsController) GetTimeframeAnalysis(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	summaries, err := c.AnalyticsService.GetTimeframeAnalysis(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// @Summary 优先级分析
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.PriorityAnalysis}
// @Router /analytics/priorities [get]
func (c *AnalyticsController) GetPriorityAnalysis(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	rows, err := c.AnalyticsService.GetPriorityAnalysis(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary 完成速度
// @Description 与上一个同长度周期对比
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Param period query string false "7_days, 30_days, 90_days, 1_year" default(30_days)
// @Success 200 {object} util.Response{data=model.CompletionVelocity}
// @Failure 400 {object} util.Response "参数错误"
// @Router /analytics/velocity [get]
func (c *AnalyticsController) GetCompletionVelocity(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	velocity, err := c.AnalyticsService.GetCompletionVelocity(ctx.Request.Context(), userID, ctx.Query("period"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, velocity)
}

// @Summary 生产力评分
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ProductivityScore}
// @Router /analytics/score [get]
func (c *AnalyticsController) GetProductivityScore(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	score, err := c.AnalyticsService.GetProductivityScore(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, score)
}

// @Summary 每日趋势
// @Description 默认最近30天
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=[]model.TrendPoint}
// @Failure 400 {object} util.Response "日期区间不合法"
// @Router /analytics/trends [get]
func (c *AnalyticsController) GetTrends(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	points, err := c.AnalyticsService.GetTrends(ctx.Request.Context(), userID, ctx.Query("start_date"), ctx.Query("end_date"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, points)
}

// @Summary 建议
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Insight}
// @Router /analytics/insights [get]
func (c *AnalyticsController) GetInsights(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	insights, err := c.AnalyticsService.GetInsights(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, insights)
}

// @Summary 分析面板
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Param period query string false "7_days, 30_days, 90_days, 1_year"
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=model.Dashboard}
// @Failure 400 {object} util.Response "参数错误"
// @Router /analytics/dashboard [get]
func (c *AnalyticsController) GetDashboard(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	dashboard, err := c.AnalyticsService.GetDashboard(ctx.Request.Context(), userID,
		ctx.Query("period"), ctx.Query("start_date"), ctx.Query("end_date"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
