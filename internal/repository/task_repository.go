package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// WithTx 返回使用事务 tx 的副本
func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: tx}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// Update 保存任务的全部字段，关联数据不随之写入
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// FindByID 查找用户的任务，不存在时返回 NotFoundError
func (r *TaskRepository) FindByID(ctx context.Context, userID, id string) (*model.Task, error) {
	var task model.Task
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// FindDetail 查找任务并加载子任务
func (r *TaskRepository) FindDetail(ctx context.Context, userID, id string) (*model.Task, error) {
	var task model.Task
	err := r.DB.WithContext(ctx).
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("created_at ASC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// List 分页查询任务
func (r *TaskRepository) List(ctx context.Context, userID string, filter model.TaskFilter) ([]model.Task, int64, error) {
	var tasks []model.Task
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Task{}).Where("user_id = ?", userID)
	if filter.Quadrant != "" {
		query = query.Where("quadrant = ?", filter.Quadrant)
	}
	if filter.GoalID != "" {
		query = query.Where("goal_id = ?", filter.GoalID)
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.IsStaged != nil {
		query = query.Where("is_staged = ?", *filter.IsStaged)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	// tags 以 JSON 数组存储
	for _, tag := range filter.Tags {
		query = query.Where("tags LIKE ?", fmt.Sprintf("%%%q%%", tag))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Order("position ASC").Order("created_at DESC").Order("id").
		Offset(filter.Offset).
		Find(&tasks).Error
	return tasks, total, err
}

// Delete 删除任务及其子任务
func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.NewNotFoundError("task", id)
		}
		return tx.Where("task_id = ?", id).Delete(&model.Subtask{}).Error
	})
}

// CountByUser 用户的任务总数
func (r *TaskRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Task{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountStagingOccupied 占用 staging 名额（staging 且未完成）的任务数，excludeID 不计入
func (r *TaskRepository) CountStagingOccupied(ctx context.Context, userID, excludeID string) (int64, error) {
	var count int64
	query := r.DB.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND quadrant = ? AND completed = ?", userID, model.QuadrantStaging, false)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

// NextPosition 象限内下一个位置（当前最大值 + 1）
func (r *TaskRepository) NextPosition(ctx context.Context, userID string, quadrant model.Quadrant) (int, error) {
	var maxPos sql.NullInt64
	err := r.DB.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND quadrant = ?", userID, quadrant).
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

// ShiftPositions 将象限内 position >= from 的任务后移一位，为插入腾出位置
func (r *TaskRepository) ShiftPositions(ctx context.Context, userID string, quadrant model.Quadrant, from int, excludeID string) error {
	query := r.DB.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND quadrant = ? AND position >= ?", userID, quadrant, from)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	return query.UpdateColumn("position", gorm.Expr("position + ?", 1)).Error
}

// FindStaged 未完成的 staging 任务，按进入时间排序
func (r *TaskRepository) FindStaged(ctx context.Context, userID string, limit int) ([]model.Task, error) {
	var tasks []model.Task
	query := r.DB.WithContext(ctx).
		Where("user_id = ? AND quadrant = ? AND completed = ?", userID, model.QuadrantStaging, false).
		Order("staged_at ASC").Order("created_at ASC").Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&tasks).Error
	return tasks, err
}

// FindAll 用户最近创建的任务，用于统计
func (r *TaskRepository) FindAll(ctx context.Context, userID string, limit int) ([]model.Task, error) {
	var tasks []model.Task
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&tasks).Error
	return tasks, err
}
