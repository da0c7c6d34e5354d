package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"quadrant_planner_backend/internal/analytics"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/pkg/logger"
	"quadrant_planner_backend/pkg/monitoring"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnalyticsRepository 读取统计所需的快照，并缓存计算结果。
// Redis 为空时不缓存。
type AnalyticsRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	TTL   time.Duration
}

func NewAnalyticsRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db, Redis: rdb, TTL: ttl}
}

// LoadSnapshot 在同一个事务中读取用户的目标和最近 maxTasks 个任务
func (r *AnalyticsRepository) LoadSnapshot(ctx context.Context, userID string, maxTasks int) (analytics.Snapshot, error) {
	var snap analytics.Snapshot
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goals, err := NewGoalRepository(tx).FindAll(ctx, userID)
		if err != nil {
			return err
		}
		tasks, err := NewTaskRepository(tx).FindAll(ctx, userID, maxTasks)
		if err != nil {
			return err
		}
		snap = analytics.Snapshot{Goals: goals, Tasks: tasks}
		return nil
	})
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("load analytics snapshot: %w", err)
	}
	return snap, nil
}

func reportKey(userID string, version int64) string {
	return fmt.Sprintf("analytics:report:%s:%d", userID, version)
}

func versionKey(userID string) string {
	return fmt.Sprintf("analytics:version:%s", userID)
}

// CacheVersion 读取用户当前的缓存版本，每次写入后递增。
// 必须在 LoadSnapshot 之前读取：写入提交后版本已变化，
// 旧快照算出的报告只会落在旧版本的 key 上，之后不会再被读到。
// 返回 false 表示缓存不可用。
func (r *AnalyticsRepository) CacheVersion(ctx context.Context, userID string) (int64, bool) {
	if r.Redis == nil {
		return 0, false
	}
	version, err := r.Redis.Get(ctx, versionKey(userID)).Int64()
	switch {
	case err == redis.Nil:
		return 0, true
	case err != nil:
		logger.Log.Warn("Failed to read analytics cache version", zap.String("user_id", userID), zap.Error(err))
		return 0, false
	}
	return version, true
}

// GetCachedReport 读取指定版本的缓存指标，未命中或出错时返回 false
func (r *AnalyticsRepository) GetCachedReport(ctx context.Context, userID string, version int64) (*model.MetricsReport, bool) {
	if r.Redis == nil {
		return nil, false
	}

	key := reportKey(userID, version)
	data, err := r.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Failed to read analytics cache", zap.String("user_id", userID), zap.Error(err))
		}
		monitoring.AnalyticsCache.WithLabelValues("miss").Inc()
		return nil, false
	}

	var report model.MetricsReport
	if err := json.Unmarshal(data, &report); err != nil {
		r.Redis.Del(ctx, key)
		monitoring.AnalyticsCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	monitoring.AnalyticsCache.WithLabelValues("hit").Inc()
	return &report, true
}

func (r *AnalyticsRepository) CacheReport(ctx context.Context, userID string, version int64, report *model.MetricsReport) {
	if r.Redis == nil || r.TTL <= 0 {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := r.Redis.Set(ctx, reportKey(userID, version), data, r.TTL).Err(); err != nil {
		logger.Log.Warn("Failed to write analytics cache", zap.String("user_id", userID), zap.Error(err))
	}
}

// Invalidate 任务或目标变化后递增版本，旧版本的报告随 TTL 过期
func (r *AnalyticsRepository) Invalidate(ctx context.Context, userID string) {
	if r.Redis == nil {
		return
	}
	if err := r.Redis.Incr(ctx, versionKey(userID)).Err(); err != nil {
		logger.Log.Warn("Failed to invalidate analytics cache", zap.String("user_id", userID), zap.Error(err))
	}
}
