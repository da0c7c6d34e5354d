package service

import (
	"context"
	"errors"
	"quadrant_planner_backend/internal/analytics"
	"quadrant_planner_backend/internal/config"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/repository"
	"quadrant_planner_backend/internal/staging"
	"quadrant_planner_backend/internal/util"
	"quadrant_planner_backend/pkg/logger"
	"quadrant_planner_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultTaskPageSize = 100

// TaskService 任务的增删改查。所有象限和完成状态的变化都经过 staging.Machine，
// 容量检查与写入在同一个用户锁事务内完成。
type TaskService struct {
	TaskRepo      *repository.TaskRepository
	GoalRepo      *repository.GoalRepository
	AnalyticsRepo *repository.AnalyticsRepository
	Locker        *repository.UserLocker
	Machine       *staging.Machine
	Limits        config.LimitsConfig
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	goalRepo *repository.GoalRepository,
	analyticsRepo *repository.AnalyticsRepository,
	locker *repository.UserLocker,
	limits config.LimitsConfig,
	now func() time.Time,
) *TaskService {
	return &TaskService{
		TaskRepo:      taskRepo,
		GoalRepo:      goalRepo,
		AnalyticsRepo: analyticsRepo,
		Locker:        locker,
		Machine:       staging.NewMachine(limits.StagingCapacity, now),
		Limits:        limits,
	}
}

// CreateTask 创建任务，进入 staging 时需要有空余名额
func (s *TaskService) CreateTask(ctx context.Context, userID string, input model.CreateTaskInput) (*model.Task, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:           userID,
		GoalID:           input.GoalID,
		Title:            input.Title,
		Description:      input.Description,
		Quadrant:         input.Quadrant,
		DueDate:          utcPtr(input.DueDate),
		EstimatedMinutes: input.EstimatedMinutes,
		Priority:         input.Priority,
		Tags:             input.Tags,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	// 创建时间与 staged_at 使用同一时钟，趋势统计按它分桶
	task.CreatedAt = s.Machine.Now().UTC()
	if err := s.Machine.Place(task); err != nil {
		return nil, err
	}

	err := s.Locker.WithUserLock(ctx, userID, func(tx *gorm.DB) error {
		tasks := s.TaskRepo.WithTx(tx)

		if task.GoalID != nil {
			if err := s.checkGoal(ctx, tx, userID, *task.GoalID); err != nil {
				return err
			}
		}

		total, err := tasks.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		if total >= int64(s.Limits.MaxTasks) {
			return util.NewCapacityError("tasks", s.Limits.MaxTasks)
		}

		if staging.RequiresSlot(nil, task) {
			if err := s.checkStagingSlot(ctx, tasks, userID, ""); err != nil {
				return err
			}
		}

		if err := s.assignPosition(ctx, tasks, task, input.Position, true); err != nil {
			return err
		}
		return tasks.Create(ctx, task)
	})
	if err != nil {
		s.recordRejection(userID, err)
		return nil, err
	}

	s.AnalyticsRepo.Invalidate(ctx, userID)
	logger.Log.Info("Task created",
		zap.String("user_id", userID),
		zap.String("task_id", task.ID),
		zap.String("quadrant", string(task.Quadrant)),
	)
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, id string) (*model.Task, error) {
	return s.TaskRepo.FindDetail(ctx, userID, id)
}

// ListTasks 分页获取任务
func (s *TaskService) ListTasks(ctx context.Context, userID string, filter model.TaskFilter) ([]model.Task, int64, error) {
	if err := validateInput(filter); err != nil {
		return nil, 0, err
	}
	if filter.Limit == 0 {
		filter.Limit = defaultTaskPageSize
	}
	return s.TaskRepo.List(ctx, userID, filter)
}

// UpdateTask 更新任务字段，象限与完成状态通过状态机变化
func (s *TaskService) UpdateTask(ctx context.Context, userID, id string, input model.UpdateTaskInput) (*model.Task, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return s.transition(ctx, userID, id, func(tx *gorm.DB, task *model.Task) (bool, error) {
		switch {
		case input.ClearGoal:
			task.GoalID = nil
		case input.GoalID != nil:
			if err := s.checkGoal(ctx, tx, userID, *input.GoalID); err != nil {
				return false, err
			}
			task.GoalID = input.GoalID
		}
		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.DueDate != nil {
			task.DueDate = utcPtr(input.DueDate)
		}
		if input.EstimatedMinutes != nil {
			task.EstimatedMinutes = input.EstimatedMinutes
		}
		if input.Priority != nil {
			task.Priority = *input.Priority
		}
		if input.Tags != nil {
			task.Tags = input.Tags
		}

		moved := false
		if input.Quadrant != nil {
			changed, err := s.Machine.SetQuadrant(task, *input.Quadrant)
			if err != nil {
				return false, err
			}
			moved = changed
		}
		if input.Completed != nil {
			s.Machine.SetCompleted(task, *input.Completed)
		}
		if input.Position != nil || moved {
			return moved, s.assignPosition(ctx, s.TaskRepo.WithTx(tx), task, input.Position, moved)
		}
		return moved, nil
	})
}

// MoveTask 拖拽到指定象限和位置
func (s *TaskService) MoveTask(ctx context.Context, userID, id string, input model.MoveTaskInput) (*model.Task, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return s.transition(ctx, userID, id, func(tx *gorm.DB, task *model.Task) (bool, error) {
		changed, err := s.Machine.SetQuadrant(task, input.Quadrant)
		if err != nil {
			return false, err
		}
		position := input.Position
		return changed, s.assignPosition(ctx, s.TaskRepo.WithTx(tx), task, &position, changed)
	})
}

// ToggleTask 切换完成状态
func (s *TaskService) ToggleTask(ctx context.Context, userID, id string) (*model.Task, error) {
	return s.transition(ctx, userID, id, func(tx *gorm.DB, task *model.Task) (bool, error) {
		s.Machine.SetCompleted(task, !task.Completed)
		return false, nil
	})
}

// DeleteTask 删除任务及其子任务
func (s *TaskService) DeleteTask(ctx context.Context, userID, id string) error {
	if err := s.TaskRepo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.AnalyticsRepo.Invalidate(ctx, userID)
	logger.Log.Info("Task deleted", zap.String("user_id", userID), zap.String("task_id", id))
	return nil
}

// GetStagingZone staging 区当前状态
func (s *TaskService) GetStagingZone(ctx context.Context, userID string) (*model.StagingZone, error) {
	staged, err := s.TaskRepo.FindStaged(ctx, userID, s.Machine.Capacity)
	if err != nil {
		return nil, err
	}
	zone := analytics.StagingZone(staged, s.Machine.Now(), s.Machine.Capacity)
	return &zone, nil
}

// GetTaskStats 任务数量统计
func (s *TaskService) GetTaskStats(ctx context.Context, userID string) (*model.TaskStats, error) {
	tasks, err := s.TaskRepo.FindAll(ctx, userID, s.Limits.MaxTasks)
	if err != nil {
		return nil, err
	}
	stats := analytics.TaskStats(tasks, s.Machine.Now())
	return &stats, nil
}

// transition 在用户锁事务内读取任务、应用修改、检查 staging 容量并保存。
// apply 返回象限是否发生变化。
func (s *TaskService) transition(ctx context.Context, userID, id string, apply func(tx *gorm.DB, task *model.Task) (bool, error)) (*model.Task, error) {
	var task *model.Task
	var from model.Quadrant
	var moved bool

	err := s.Locker.WithUserLock(ctx, userID, func(tx *gorm.DB) error {
		tasks := s.TaskRepo.WithTx(tx)
		current, err := tasks.FindByID(ctx, userID, id)
		if err != nil {
			return err
		}
		before := *current
		from = before.Quadrant

		moved, err = apply(tx, current)
		if err != nil {
			return err
		}

		if staging.RequiresSlot(&before, current) {
			if err := s.checkStagingSlot(ctx, tasks, userID, current.ID); err != nil {
				return err
			}
		}

		if err := tasks.Update(ctx, current); err != nil {
			return err
		}
		task = current
		return nil
	})
	if err != nil {
		s.recordRejection(userID, err)
		return nil, err
	}

	if moved {
		monitoring.QuadrantTransitions.WithLabelValues(string(from), string(task.Quadrant)).Inc()
		logger.Log.Info("Task moved",
			zap.String("user_id", userID),
			zap.String("task_id", task.ID),
			zap.String("from", string(from)),
			zap.String("quadrant", string(task.Quadrant)),
		)
	}
	s.AnalyticsRepo.Invalidate(ctx, userID)
	return task, nil
}

func (s *TaskService) checkGoal(ctx context.Context, tx *gorm.DB, userID, goalID string) error {
	goal, err := s.GoalRepo.WithTx(tx).FindByID(ctx, userID, goalID)
	if err != nil {
		return err
	}
	if goal.Archived {
		return util.NewValidationError("goalId", "cannot assign tasks to an archived goal")
	}
	return nil
}

func (s *TaskService) checkStagingSlot(ctx context.Context, tasks *repository.TaskRepository, userID, excludeID string) error {
	occupied, err := tasks.CountStagingOccupied(ctx, userID, excludeID)
	if err != nil {
		return err
	}
	return s.Machine.CheckCapacity(occupied)
}

// assignPosition 指定位置时将后面的任务后移；未指定且需要重新排位时放到象限末尾
func (s *TaskService) assignPosition(ctx context.Context, tasks *repository.TaskRepository, task *model.Task, position *int, appendIfUnset bool) error {
	if position != nil {
		if err := tasks.ShiftPositions(ctx, task.UserID, task.Quadrant, *position, task.ID); err != nil {
			return err
		}
		task.Position = *position
		return nil
	}
	if !appendIfUnset {
		return nil
	}
	next, err := tasks.NextPosition(ctx, task.UserID, task.Quadrant)
	if err != nil {
		return err
	}
	task.Position = next
	return nil
}

func (s *TaskService) recordRejection(userID string, err error) {
	var capErr *util.CapacityError
	if !errors.As(err, &capErr) {
		return
	}
	monitoring.CapacityRejections.WithLabelValues(capErr.Resource).Inc()
	logger.Log.Info("Write rejected by capacity limit",
		zap.String("user_id", userID),
		zap.String("resource", capErr.Resource),
		zap.Int("limit", capErr.Limit),
	)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
