package app

import (
	"quadrant_planner_backend/docs"
	"quadrant_planner_backend/internal/config"
	"quadrant_planner_backend/internal/middleware"
	"quadrant_planner_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerGoalRoutes(authGroup, c)
		a.registerTaskRoutes(authGroup, c)
		a.registerAnalyticsRoutes(authGroup, c)
	}
}

func (a *App) registerGoalRoutes(rg *gin.RouterGroup, c *controllers) {
	goals := rg.Group("/goals")
	{
		goals.GET("", c.goal.ListGoals)
		goals.POST("", c.goal.CreateGoal)
		goals.GET("/:id", c.goal.GetGoal)
		goals.PUT("/:id", c.goal.UpdateGoal)
		goals.DELETE("/:id", c.goal.ArchiveGoal)
	}
}

func (a *App) registerTaskRoutes(rg *gin.RouterGroup, c *controllers) {
	tasks := rg.Group("/tasks")
	{
		tasks.GET("", c.task.ListTasks)
		tasks.POST("", c.task.CreateTask)
		tasks.GET("/staging", c.task.GetStagingZone)
		tasks.GET("/stats", c.task.GetTaskStats)
		tasks.GET("/:id", c.task.GetTask)
		tasks.PUT("/:id", c.task.UpdateTask)
		tasks.DELETE("/:id", c.task.DeleteTask)
		tasks.PATCH("/:id/toggle", c.task.ToggleTask)
		tasks.PATCH("/:id/move", c.task.MoveTask)

		// 子任务
		tasks.GET("/:id/subtasks", c.subtask.ListSubtasks)
		tasks.POST("/:id/subtasks", c.subtask.CreateSubtask)
		tasks.PUT("/:id/subtasks/:subtaskId", c.subtask.UpdateSubtask)
		tasks.DELETE("/:id/subtasks/:subtaskId", c.subtask.DeleteSubtask)
		tasks.PATCH("/:id/subtasks/:subtaskId/toggle", c.subtask.ToggleSubtask)
	}
}

func (a *App) registerAnalyticsRoutes(rg *gin.RouterGroup, c *controllers) {
	analytics := rg.Group("/analytics")
	{
		analytics.GET("/dashboard", c.analytics.GetDashboard)
		analytics.GET("/metrics", c.analytics.GetMetrics)
		analytics.GET("/goals", c.analytics.GetGoalStats)
		analytics.GET("/quadrants", c.analytics.GetQuadrantDistribution)
		analytics.GET("/quadrants/analysis", c.analytics.GetQuadrantAnalysis)
		analytics.GET("/staging", c.analytics.GetStagingEfficiency)
		analytics.GET("/productivity", c.analytics.GetProductivity)
		analytics.GET("/overdue", c.analytics.GetOverdueAnalysis)
		analytics.GET("/categories", c.analytics.GetCategoryBreakdown)
		analytics.GET("/timeframes", c.analytics.GetTimeframeAnalysis)
		analytics.GET("/priorities", c.analytics.GetPriorityAnalysis)
		analytics.GET("/velocity", c.analytics.GetCompletionVelocity)
		analytics.GET("/score", c.analytics.GetProductivityScore)
		analytics.GET("/trends", c.analytics.GetTrends)
		analytics.GET("/insights", c.analytics.GetInsights)
	}
}
