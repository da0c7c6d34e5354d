package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/util"

	"gorm.io/gorm"
)

type SubtaskRepository struct {
	DB *gorm.DB
}

func NewSubtaskRepository(db *gorm.DB) *SubtaskRepository {
	return &SubtaskRepository{DB: db}
}

func (r *SubtaskRepository) WithTx(tx *gorm.DB) *SubtaskRepository {
	return &SubtaskRepository{DB: tx}
}

func (r *SubtaskRepository) Create(ctx context.Context, subtask *model.Subtask) error {
	return r.DB.WithContext(ctx).Create(subtask).Error
}

func (r *SubtaskRepository) Update(ctx context.Context, subtask *model.Subtask) error {
	return r.DB.WithContext(ctx).Save(subtask).Error
}

// FindByID 查找任务下的子任务
func (r *SubtaskRepository) FindByID(ctx context.Context, taskID, id string) (*model.Subtask, error) {
	var subtask model.Subtask
	err := r.DB.WithContext(ctx).Where("id = ? AND task_id = ?", id, taskID).First(&subtask).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("subtask", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find subtask: %w", err)
	}
	return &subtask, nil
}

func (r *SubtaskRepository) FindByTask(ctx context.Context, taskID string) ([]model.Subtask, error) {
	var subtasks []model.Subtask
	err := r.DB.WithContext(ctx).Where("task_id = ?", taskID).
		Order("position ASC").Order("created_at ASC").
		Find(&subtasks).Error
	return subtasks, err
}

func (r *SubtaskRepository) CountByTask(ctx context.Context, taskID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Subtask{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}

func (r *SubtaskRepository) NextPosition(ctx context.Context, taskID string) (int, error) {
	var maxPos sql.NullInt64
	err := r.DB.WithContext(ctx).Model(&model.Subtask{}).
		Where("task_id = ?", taskID).
		Select("MAX(position)").
		Row().Scan(&maxPos)
	if err != nil {
		return 0, err
	}
	if !maxPos.Valid {
		return 0, nil
	}
	return int(maxPos.Int64) + 1, nil
}

func (r *SubtaskRepository) Delete(ctx context.Context, taskID, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND task_id = ?", id, taskID).Delete(&model.Subtask{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.NewNotFoundError("subtask", id)
	}
	return nil
}
