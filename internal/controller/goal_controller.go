package controller

import (
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/service"
	"quadrant_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// GoalController 目标相关接口
type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// CreateGoal godoc
// @Summary 创建目标
// @Tags 目标
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body model.CreateGoalInput true "目标信息"
// @Success 201 {object} util.Response{data=model.Goal}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "目标数量已达上限"
// @Router /goals [post]
func (c *GoalController) CreateGoal(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var input model.CreateGoalInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.CreateGoal(ctx.Request.Context(), userID, input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, goal)
}

// ListGoals godoc
// @Summary 目标列表
// @Tags 目标
// @Produce json
// @Security ApiKeyAuth
// @Param category query string false "类别"
// @Param timeframe query string false "周期"
// @Param archived query bool false "是否包含已归档"
// @Param search query string false "按标题模糊搜索"
// @Param limit query int false "每页数量" default(50)
// @Param offset query int false "偏移量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /goals [get]
func (c *GoalController) ListGoals(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var filter model.GoalFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goals, total, err := c.GoalService.ListGoals(ctx.Request.Context(), userID, filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(goals, total, pageLimit(filter.Limit, 50), filter.Offset, len(goals)))
}

// GetGoal godoc
// @Summary 目标详情
// @Tags 目标
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "目标ID"
// @Success 200 {object} util.Response{data=model.Goal}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /goals/{id} [get]
func (c *GoalController) GetGoal(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	goal, err := c.GoalService.GetGoal(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// UpdateGoal godoc
// @Summary 更新目标
// @Description 已归档的目标不可修改
// @Tags 目标
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "目标ID"
// @Param request body model.UpdateGoalInput true "更新字段"
// @Success 200 {object} util.Response{data=model.Goal}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "目标不存在"
// @Router /goals/{id} [put]
func (c *GoalController) UpdateGoal(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var input model.UpdateGoalInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.UpdateGoal(ctx.Request.Context(), userID, ctx.Param("id"), input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// ArchiveGoal godoc
// @Summary 归档目标
// @Description 目标不会被物理删除，关联任务保留
// @Tags 目标
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "目标ID"
// @Success 200 {object} util.Response{data=model.Goal}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /goals/{id} [delete]
func (c *GoalController) ArchiveGoal(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	goal, err := c.GoalService.ArchiveGoal(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// requireUser 取出当前用户ID，未登录时直接返回 401
func requireUser(ctx *gin.Context) (string, bool) {
	userID := util.GetUserID(ctx)
	if userID == "" {
		util.Unauthorized(ctx)
		return "", false
	}
	return userID, true
}

func pageLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
