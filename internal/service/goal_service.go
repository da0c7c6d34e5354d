package service

import (
	"context"
	"errors"
	"quadrant_planner_backend/internal/config"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/repository"
	"quadrant_planner_backend/internal/util"
	"quadrant_planner_backend/pkg/logger"
	"quadrant_planner_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultGoalPageSize = 50

// GoalService 处理目标的业务逻辑
type GoalService struct {
	GoalRepo      *repository.GoalRepository
	AnalyticsRepo *repository.AnalyticsRepository
	Locker        *repository.UserLocker
	Limits        config.LimitsConfig
}

func NewGoalService(
	goalRepo *repository.GoalRepository,
	analyticsRepo *repository.AnalyticsRepository,
	locker *repository.UserLocker,
	limits config.LimitsConfig,
) *GoalService {
	return &GoalService{
		GoalRepo:      goalRepo,
		AnalyticsRepo: analyticsRepo,
		Locker:        locker,
		Limits:        limits,
	}
}

// CreateGoal 创建目标，未归档目标数量受上限约束
func (s *GoalService) CreateGoal(ctx context.Context, userID string, input model.CreateGoalInput) (*model.Goal, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	goal := &model.Goal{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Timeframe:   input.Timeframe,
		Color:       input.Color,
	}

	err := s.Locker.WithUserLock(ctx, userID, func(tx *gorm.DB) error {
		goals := s.GoalRepo.WithTx(tx)
		count, err := goals.CountActive(ctx, userID)
		if err != nil {
			return err
		}
		if count >= int64(s.Limits.MaxGoals) {
			return util.NewCapacityError("goals", s.Limits.MaxGoals)
		}
		return goals.Create(ctx, goal)
	})
	if err != nil {
		if errors.Is(err, util.ErrCapacityExceeded) {
			monitoring.CapacityRejections.WithLabelValues("goals").Inc()
		}
		return nil, err
	}

	s.AnalyticsRepo.Invalidate(ctx, userID)
	logger.Log.Info("Goal created", zap.String("user_id", userID), zap.String("goal_id", goal.ID))
	return goal, nil
}

func (s *GoalService) GetGoal(ctx context.Context, userID, id string) (*model.Goal, error) {
	return s.GoalRepo.FindByID(ctx, userID, id)
}

// ListGoals 分页获取目标
func (s *GoalService) ListGoals(ctx context.Context, userID string, filter model.GoalFilter) ([]model.Goal, int64, error) {
	if err := validateInput(filter); err != nil {
		return nil, 0, err
	}
	if filter.Limit == 0 {
		filter.Limit = defaultGoalPageSize
	}
	return s.GoalRepo.List(ctx, userID, filter)
}

// UpdateGoal 更新目标。已归档目标只读，归档不可撤销
func (s *GoalService) UpdateGoal(ctx context.Context, userID, id string, input model.UpdateGoalInput) (*model.Goal, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	goal, err := s.GoalRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if goal.Archived {
		return nil, util.NewValidationError("archived", "archived goals cannot be modified")
	}

	if input.Title != nil {
		goal.Title = *input.Title
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.Category != nil {
		goal.Category = *input.Category
	}
	if input.Timeframe != nil {
		goal.Timeframe = *input.Timeframe
	}
	if input.Color != nil {
		goal.Color = *input.Color
	}
	if input.Archived != nil {
		goal.Archived = *input.Archived
	}

	if err := s.GoalRepo.Update(ctx, goal); err != nil {
		return nil, err
	}
	s.AnalyticsRepo.Invalidate(ctx, userID)
	return goal, nil
}

// ArchiveGoal 归档目标，重复归档为空操作
func (s *GoalService) ArchiveGoal(ctx context.Context, userID, id string) (*model.Goal, error) {
	goal, err := s.GoalRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if goal.Archived {
		return goal, nil
	}

	goal.Archived = true
	if err := s.GoalRepo.Update(ctx, goal); err != nil {
		return nil, err
	}

	s.AnalyticsRepo.Invalidate(ctx, userID)
	logger.Log.Info("Goal archived", zap.String("user_id", userID), zap.String("goal_id", goal.ID))
	return goal, nil
}
