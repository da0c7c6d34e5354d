package repository

import (
	"context"
	"errors"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/pkg/logger"
	"quadrant_planner_backend/pkg/monitoring"
	"quadrant_planner_backend/pkg/tracing"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MySQL 死锁与锁等待超时，整个事务重跑即可
const (
	errLockDeadlock    = 1213
	errLockWaitTimeout = 1205
)

// UserLocker 串行化同一用户的“检查容量 + 写入”事务
type UserLocker struct {
	DB      *gorm.DB
	Retries int
}

func NewUserLocker(db *gorm.DB, retries int) *UserLocker {
	if retries < 1 {
		retries = 1
	}
	return &UserLocker{DB: db, Retries: retries}
}

// WithUserLock 在事务中先锁住用户的 user_locks 行再执行 fn。
// fn 内的所有读写都必须使用传入的 tx。
// 遇到死锁等暂时性冲突时整体重跑 fn，最多 Retries 次；业务错误直接返回。
func (l *UserLocker) WithUserLock(ctx context.Context, userID string, fn func(tx *gorm.DB) error) error {
	ctx, span := tracing.Start(ctx, "repository.WithUserLock", userID)

	var err error
	for attempt := 1; attempt <= l.Retries; attempt++ {
		err = l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := lockUser(tx, userID); err != nil {
				return err
			}
			return fn(tx)
		})
		if err == nil || !IsTransient(err) {
			break
		}

		monitoring.TxRetries.Inc()
		logger.Log.Warn("Retrying user transaction after transient conflict",
			zap.String("user_id", userID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	tracing.End(span, err)
	return err
}

func lockUser(tx *gorm.DB, userID string) error {
	lock := model.UserLock{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&lock).Error; err != nil {
		return err
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&lock).Error
}

// IsTransient 判断是否为可整体重试的写冲突
func IsTransient(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == errLockDeadlock || mysqlErr.Number == errLockWaitTimeout
	}
	return false
}
