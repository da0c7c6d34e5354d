package model

import (
	"time"

	"gorm.io/gorm"
)

// Quadrant 艾森豪威尔矩阵象限，staging 为待整理区
type Quadrant string

const (
	QuadrantStaging Quadrant = "staging"
	QuadrantQ1      Quadrant = "Q1" // 重要且紧急
	QuadrantQ2      Quadrant = "Q2" // 重要不紧急
	QuadrantQ3      Quadrant = "Q3" // 紧急不重要
	QuadrantQ4      Quadrant = "Q4" // 不重要不紧急
)

var Quadrants = []Quadrant{QuadrantStaging, QuadrantQ1, QuadrantQ2, QuadrantQ3, QuadrantQ4}

func (q Quadrant) Valid() bool {
	switch q {
	case QuadrantStaging, QuadrantQ1, QuadrantQ2, QuadrantQ3, QuadrantQ4:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

var Priorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task 任务。IsStaged/StagedAt/OrganizedAt/CompletedAt 均为派生字段，
// 只能通过 staging 包的状态机修改
// swagger:model Task
type Task struct {
	UUIDBase
	UserID           string       `gorm:"index:idx_task_user_quadrant,priority:1;type:varchar(64);not null" json:"userId"`
	GoalID           *string      `gorm:"index;type:varchar(36)" json:"goalId"`
	Goal             *Goal        `gorm:"constraint:OnDelete:SET NULL" json:"goal,omitempty"`
	Title            string       `gorm:"size:200;not null" json:"title"`
	Description      string       `gorm:"type:text" json:"description,omitempty"`
	Quadrant         Quadrant     `gorm:"index:idx_task_user_quadrant,priority:2;size:10;not null" json:"quadrant"`
	DueDate          *time.Time   `json:"dueDate"`
	EstimatedMinutes *int         `json:"estimatedMinutes"`
	Priority         TaskPriority `gorm:"size:10;default:'medium'" json:"priority"`
	Tags             []string     `gorm:"serializer:json;type:text" json:"tags"`
	Completed        bool         `gorm:"index:idx_task_user_quadrant,priority:3;default:false" json:"completed"`
	IsStaged         bool         `gorm:"default:false" json:"isStaged"`
	Position         int          `gorm:"default:0" json:"position"`
	StagedAt         *time.Time   `json:"stagedAt"`
	OrganizedAt      *time.Time   `json:"organizedAt"`
	CompletedAt      *time.Time   `json:"completedAt"`
	Subtasks         []Subtask    `gorm:"constraint:OnDelete:CASCADE" json:"subtasks,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// BeforeSave 保证 IsStaged 始终等于 Quadrant == staging
func (t *Task) BeforeSave(tx *gorm.DB) error {
	t.IsStaged = t.Quadrant == QuadrantStaging
	return nil
}

// OccupiesStagingSlot 未完成且位于 staging 的任务占用一个容量名额
func (t *Task) OccupiesStagingSlot() bool {
	return t.Quadrant == QuadrantStaging && !t.Completed
}

// IsOverdue 未完成且截止时间早于 now
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// Subtask 子任务，随父任务级联删除
// swagger:model Subtask
type Subtask struct {
	UUIDBase
	TaskID    string `gorm:"index;type:varchar(36);not null" json:"taskId"`
	Title     string `gorm:"size:200;not null" json:"title"`
	Completed bool   `gorm:"default:false" json:"completed"`
	Position  int    `gorm:"default:0" json:"position"`
}

func (Subtask) TableName() string {
	return "subtasks"
}
