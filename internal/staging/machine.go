// Package staging 实现任务在 staging 待整理区与四个象限之间的状态流转。
//
// 所有派生字段（IsStaged、StagedAt、OrganizedAt、CompletedAt）只在这里修改。
// 容量检查本身不读库：调用方在持有用户锁的事务里统计其他占用名额的任务数，
// 再交给 CheckCapacity 判断。
package staging

import (
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/util"
	"time"
)

const DefaultCapacity = 5

type Machine struct {
	Capacity int
	Now      func() time.Time
}

func NewMachine(capacity int, now func() time.Time) *Machine {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Machine{Capacity: capacity, Now: now}
}

func (m *Machine) now() time.Time {
	return m.Now().UTC()
}

// Place 初始化新建任务的派生字段
func (m *Machine) Place(t *model.Task) error {
	if !t.Quadrant.Valid() {
		return util.NewValidationError("quadrant", "invalid quadrant: "+string(t.Quadrant))
	}
	t.IsStaged = t.Quadrant == model.QuadrantStaging
	t.OrganizedAt = nil
	t.StagedAt = nil
	if t.IsStaged {
		now := m.now()
		t.StagedAt = &now
	}
	t.CompletedAt = nil
	if t.Completed {
		now := m.now()
		t.CompletedAt = &now
	}
	return nil
}

// SetQuadrant 修改任务象限，返回是否发生了变化。
// 相同象限为空操作，不会重置 StagedAt/OrganizedAt。
func (m *Machine) SetQuadrant(t *model.Task, q model.Quadrant) (bool, error) {
	if !q.Valid() {
		return false, util.NewValidationError("quadrant", "invalid quadrant: "+string(q))
	}
	if t.Quadrant == q {
		t.IsStaged = q == model.QuadrantStaging
		return false, nil
	}

	now := m.now()
	switch {
	case q == model.QuadrantStaging:
		t.StagedAt = &now
		t.OrganizedAt = nil
	case t.Quadrant == model.QuadrantStaging:
		t.OrganizedAt = &now
	}

	t.Quadrant = q
	t.IsStaged = q == model.QuadrantStaging
	return true, nil
}

// SetCompleted 切换完成状态，象限保持不变
func (m *Machine) SetCompleted(t *model.Task, completed bool) bool {
	if t.Completed == completed {
		return false
	}
	t.Completed = completed
	if completed {
		now := m.now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	return true
}

// RequiresSlot 判断 before -> after 的变化是否需要检查 staging 容量：
// 进入 staging（新建或从其他象限移入），或在 staging 中被重新标记为未完成。
func RequiresSlot(before *model.Task, after *model.Task) bool {
	if after.Quadrant != model.QuadrantStaging {
		return false
	}
	if before == nil {
		return !after.Completed
	}
	if before.Quadrant != model.QuadrantStaging {
		return true
	}
	return after.OccupiesStagingSlot() && !before.OccupiesStagingSlot()
}

// CheckCapacity others 为同一用户其他占用 staging 名额的任务数
func (m *Machine) CheckCapacity(others int64) error {
	if others >= int64(m.Capacity) {
		return util.NewCapacityError("staging", m.Capacity)
	}
	return nil
}
