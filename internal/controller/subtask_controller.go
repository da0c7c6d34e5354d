package controller

import (
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/service"
	"quadrant_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubtaskController struct {
	SubtaskService *service.SubtaskService
}

func NewSubtaskController(subtaskService *service.SubtaskService) *SubtaskController {
	return &SubtaskController{SubtaskService: subtaskService}
}

// CreateSubtask godoc
// @Summary 添加子任务
// @Tags 子任务
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Param request body model.CreateSubtaskInput true "子任务信息"
// @Success 201 {object} util.Response{data=model.Subtask}
// @Failure 404 {object} util.Response "任务不存在"
// @Failure 409 {object} util.Response "子任务数量已达上限"
// @Router /tasks/{id}/subtasks [post]
func (c *SubtaskController) CreateSubtask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var input model.CreateSubtaskInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subtask, err := c.SubtaskService.CreateSubtask(ctx.Request.Context(), userID, ctx.Param("id"), input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, subtask)
}

// ListSubtasks godoc
// @Summary 子任务列表
// @Tags 子任务
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Success 200 {object} util.Response{data=[]model.Subtask}
// @Router /tasks/{id}/subtasks [get]
func (c *SubtaskController) ListSubtasks(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	subtasks, err := c.SubtaskService.ListSubtasks(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, subtasks)
}

// UpdateSubtask godoc
// @Summary 更新子任务
// @Tags 子任务
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Param subtaskId path string true "子任务ID"
// @Param request body model.UpdateSubtaskInput true "更新字段"
// @Success 200 {object} util.Response{data=model.Subtask}
// @Router /tasks/{id}/subtasks/{subtaskId} [put]
func (c *SubtaskController) UpdateSubtask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var input model.UpdateSubtaskInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subtask, err := c.SubtaskService.UpdateSubtask(ctx.Request.Context(), userID, ctx.Param("id"), ctx.Param("subtaskId"), input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, subtask)
}

// ToggleSubtask godoc
// @Summary 切换子任务完成状态
// @Tags 子任务
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Param subtaskId path string true "子任务ID"
// @Success 200 {object} util.Response{data=model.Subtask}
// @Router /tasks/{id}/subtasks/{subtaskId}/toggle [patch]
func (c *SubtaskController) ToggleSubtask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	subtask, err := c.SubtaskService.ToggleSubtask(ctx.Request.Context(), userID, ctx.Param("id"), ctx.Param("subtaskId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, subtask)
}

// DeleteSubtask godoc
// @Summary 删除子任务
// @Tags 子任务
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "任务ID"
// @Param subtaskId path string true "子任务ID"
// @Success 200 {object} util.Response
// @Router /tasks/{id}/subtasks/{subtaskId} [delete]
func (c *SubtaskController) DeleteSubtask(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.SubtaskService.DeleteSubtask(ctx.Request.Context(), userID, ctx.Param("id"), ctx.Param("subtaskId")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
