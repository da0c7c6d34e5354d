package repository

import (
	"context"
	"errors"
	"fmt"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

// GoalRepository 处理目标的数据访问

type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

// WithTx 返回使用事务 tx 的副本
func (r *GoalRepository) WithTx(tx *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: tx}
}

// Create 创建新的目标
func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	return r.DB.WithContext(ctx).Create(goal).Error
}

// Update 更新目标的可编辑字段
func (r *GoalRepository) Update(ctx context.Context, goal *model.Goal) error {
	return r.DB.WithContext(ctx).Model(goal).
		Select("title", "description", "category", "timeframe", "color", "archived", "updated_at").
		Updates(goal).Error
}

// FindByID 查找用户的目标，不存在时返回 NotFoundError
func (r *GoalRepository) FindByID(ctx context.Context, userID, id string) (*model.Goal, error) {
	var goal model.Goal
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("goal", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find goal: %w", err)
	}
	return &goal, nil
}

// List 分页查询目标，filter.Archived 为 true 时包含已归档目标
// likeEscaper 转义 LIKE 通配符，'!' 作为转义字符
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *GoalRepository) List(ctx context.Context, userID string, filter model.GoalFilter) ([]model.Goal, int64, error) {
	var goals []model.Goal
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Goal{}).Where("user_id = ?", userID)
	if !filter.Archived {
		query = query.Where("archived = ?", false)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Timeframe != "" {
		query = query.Where("timeframe = ?", filter.Timeframe)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(search))+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Order("created_at DESC").Order("id").
		Offset(filter.Offset).
		Find(&goals).Error
	return goals, total, err
}

// FindAll 用户的全部目标（含已归档），用于统计
func (r *GoalRepository) FindAll(ctx context.Context, userID string) ([]model.Goal, error) {
	var goals []model.Goal
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id").
		Find(&goals).Error
	return goals, err
}

// CountActive 未归档目标数量
func (r *GoalRepository) CountActive(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Goal{}).
		Where("user_id = ? AND archived = ?", userID, false).
		Count(&count).Error
	return count, err
}
