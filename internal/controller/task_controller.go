package controller

import (
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/service"
	"quadrant_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TaskController 处理任务相关的API请求
type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

// CreateTask godoc
// @Summary 创建任务
// @Description 放入 staging 时若待整理区已满返回 409
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body model.CreateTaskInput true "任务信息"
// @Success 201 {object} util.Response{data=model.Task}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "目标不存在"
// @Failure 409 {object} util.Response "容量已满"
// @Router /tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var input model.CreateTaskInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.CreateTask(ctx.Request.Context(), userID, input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, task)
}

// ListTasks godoc
// @Summary 任务列表
// @Tags 任务管理
// @Produce json
// @Security ApiKeyAuth
// @Param quadrant query string false "象限"
// @Param goalId query string false "目标ID"
// @Param completed query bool false "是否完成"
// @Param isStaged query bool false "是否在 staging"
// @Param priority query string false "优先级"
// @Param tags query []string false "标签"
// @Param limit query int false "每页数量" default(100)
// @Param offset query int false "偏移量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var filter model.TaskFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tasks, total, err := c.TaskService.ListTasks(ctx.Request.Context(), userID, filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(tasks, total, pageLimit(filter.Limit, 100), filter.Offset, len(tasks)))
}

// GetTask godoc
// @Summary 任务详情
// @Description 包含子任务
// @Tags 任务管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 404 {object} util.Response "任务不存在"
// @Router /tasks/{id} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	task, err := c.TaskService.GetTask(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// UpdateTask godoc
// @Summary 更新任务
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Param request body model.UpdateTaskInput true "更新字段"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "任务不存在"
// @Failure 409 {object} util.Response "容量已满"
// @Router /tasks/{id} [put]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var input model.UpdateTaskInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.UpdateTask(ctx.Request.Context(), userID, ctx.Param("id"), input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// MoveTask godoc
// @Summary 移动任务
// @Description 拖拽到指定象限和位置
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Param request body model.MoveTaskInput true "目标象限和位置"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 409 {object} util.Response "容量已满"
// @Router /tasks/{id}/move [patch]
func (c *TaskController) MoveTask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var input model.MoveTaskInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.MoveTask(ctx.Request.Context(), userID, ctx.Param("id"), input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// ToggleTask godoc
// @Summary 切换完成状态
// @Tags 任务管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 409 {object} util.Response "容量已满"
// @Router /tasks/{id}/toggle [patch]
func (c *TaskController) ToggleTask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	task, err := c.TaskService.ToggleTask(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// DeleteTask godoc
// @Summary 删除任务
// @Tags 任务管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "任务不存在"
// @Router /tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.TaskService.DeleteTask(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetStagingZone godoc
// @Summary 待整理区状态
// @Tags 任务管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.StagingZone}
// @Router /tasks/staging [get]
func (c *TaskController) GetStagingZone(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	zone, err := c.TaskService.GetStagingZone(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, zone)
}

// GetTaskStats godoc
// @Summary 任务统计
// @Tags 任务管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.TaskStats}
// @Router /tasks/stats [get]
func (c *TaskController) GetTaskStats(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	stats, err := c.TaskService.GetTaskStats(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
