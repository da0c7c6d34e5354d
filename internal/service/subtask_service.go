package service

import (
	"context"
	"errors"
	"quadrant_planner_backend/internal/config"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/repository"
	"quadrant_planner_backend/internal/util"
	"quadrant_planner_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type SubtaskService struct {
	SubtaskRepo *repository.SubtaskRepository
	TaskRepo    *repository.TaskRepository
	Locker      *repository.UserLocker
	Limits      config.LimitsConfig
}

func NewSubtaskService(
	subtaskRepo *repository.SubtaskRepository,
	taskRepo *repository.TaskRepository,
	locker *repository.UserLocker,
	limits config.LimitsConfig,
) *SubtaskService {
	return &SubtaskService{
		SubtaskRepo: subtaskRepo,
		TaskRepo:    taskRepo,
		Locker:      locker,
		Limits:      limits,
	}
}

// CreateSubtask 为任务添加子任务，每个任务最多 MaxSubtasks 个
func (s *SubtaskService) CreateSubtask(ctx context.Context, userID, taskID string, input model.CreateSubtaskInput) (*model.Subtask, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	subtask := &model.Subtask{TaskID: taskID, Title: input.Title}
	err := s.Locker.WithUserLock(ctx, userID, func(tx *gorm.DB) error {
		if _, err := s.TaskRepo.WithTx(tx).FindByID(ctx, userID, taskID); err != nil {
			return err
		}

		subtasks := s.SubtaskRepo.WithTx(tx)
		count, err := subtasks.CountByTask(ctx, taskID)
		if err != nil {
			return err
		}
		if count >= int64(s.Limits.MaxSubtasks) {
			return util.NewCapacityError("subtasks", s.Limits.MaxSubtasks)
		}

		if input.Position != nil {
			subtask.Position = *input.Position
		} else {
			next, err := subtasks.NextPosition(ctx, taskID)
			if err != nil {
				return err
			}
			subtask.Position = next
		}
		return subtasks.Create(ctx, subtask)
	})
	if err != nil {
		var capErr *util.CapacityError
		if errors.As(err, &capErr) {
			monitoring.CapacityRejections.WithLabelValues(capErr.Resource).Inc()
		}
		return nil, err
	}
	return subtask, nil
}

func (s *SubtaskService) ListSubtasks(ctx context.Context, userID, taskID string) ([]model.Subtask, error) {
	if _, err := s.TaskRepo.FindByID(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.SubtaskRepo.FindByTask(ctx, taskID)
}

func (s *SubtaskService) UpdateSubtask(ctx context.Context, userID, taskID, id string, input model.UpdateSubtaskInput) (*model.Subtask, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.modify(ctx, userID, taskID, id, func(st *model.Subtask) {
		if input.Title != nil {
			st.Title = *input.Title
		}
		if input.Completed != nil {
			st.Completed = *input.Completed
		}
		if input.Position != nil {
			st.Position = *input.Position
		}
	})
}

func (s *SubtaskService) ToggleSubtask(ctx context.Context, userID, taskID, id string) (*model.Subtask, error) {
	return s.modify(ctx, userID, taskID, id, func(st *model.Subtask) {
		st.Completed = !st.Completed
	})
}

func (s *SubtaskService) DeleteSubtask(ctx context.Context, userID, taskID, id string) error {
	if _, err := s.TaskRepo.FindByID(ctx, userID, taskID); err != nil {
		return err
	}
	return s.SubtaskRepo.Delete(ctx, taskID, id)
}

func (s *SubtaskService) modify(ctx context.Context, userID, taskID, id string, apply func(*model.Subtask)) (*model.Subtask, error) {
	if _, err := s.TaskRepo.FindByID(ctx, userID, taskID); err != nil {
		return nil, err
	}
	subtask, err := s.SubtaskRepo.FindByID(ctx, taskID, id)
	if err != nil {
		return nil, err
	}
	apply(subtask)
	if err := s.SubtaskRepo.Update(ctx, subtask); err != nil {
		return nil, err
	}
	return subtask, nil
}
