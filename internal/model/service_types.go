package model

import "time"

// CreateGoalInput 创建目标
type CreateGoalInput struct {
	Title       string        `json:"title" binding:"required,min=1,max=200"`
	Description string        `json:"description" binding:"max=1000"`
	Category    GoalCategory  `json:"category" binding:"required,oneof=career health relationships learning financial personal"`
	Timeframe   GoalTimeframe `json:"timeframe" binding:"required,oneof=3_months 6_months 1_year ongoing"`
	Color       string        `json:"color" binding:"max=50"`
}

// UpdateGoalInput 更新目标，空指针表示不修改
type UpdateGoalInput struct {
	Title       *string        `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string        `json:"description" binding:"omitempty,max=1000"`
	Category    *GoalCategory  `json:"category" binding:"omitempty,oneof=career health relationships learning financial personal"`
	Timeframe   *GoalTimeframe `json:"timeframe" binding:"omitempty,oneof=3_months 6_months 1_year ongoing"`
	Color       *string        `json:"color" binding:"omitempty,max=50"`
	Archived    *bool          `json:"archived"`
}

type GoalFilter struct {
	Category  GoalCategory  `form:"category" binding:"omitempty,oneof=career health relationships learning financial personal"`
	Timeframe GoalTimeframe `form:"timeframe" binding:"omitempty,oneof=3_months 6_months 1_year ongoing"`
	Archived  bool          `form:"archived"`
	Search    string        `form:"search" binding:"max=200"`
	Limit     int           `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset    int           `form:"offset" binding:"omitempty,min=0"`
}

// CreateTaskInput 创建任务
type CreateTaskInput struct {
	GoalID           *string      `json:"goalId" binding:"omitempty,uuid"`
	Title            string       `json:"title" binding:"required,min=1,max=200"`
	Description      string       `json:"description" binding:"max=1000"`
	Quadrant         Quadrant     `json:"quadrant" binding:"required,oneof=staging Q1 Q2 Q3 Q4"`
	DueDate          *time.Time   `json:"dueDate"`
	EstimatedMinutes *int         `json:"estimatedMinutes" binding:"omitempty,min=1,max=480"`
	Priority         TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Tags             []string     `json:"tags" binding:"omitempty,max=10,dive,min=1,max=50"`
	Position         *int         `json:"position" binding:"omitempty,min=0"`
}

// UpdateTaskInput 更新任务，空指针表示不修改。ClearGoal 解除目标关联
type UpdateTaskInput struct {
	GoalID           *string       `json:"goalId" binding:"omitempty,uuid"`
	ClearGoal        bool          `json:"clearGoal" binding:"excluded_with=GoalID"`
	Title            *string       `json:"title" binding:"omitempty,min=1,max=200"`
	Description      *string       `json:"description" binding:"omitempty,max=1000"`
	Quadrant         *Quadrant     `json:"quadrant" binding:"omitempty,oneof=staging Q1 Q2 Q3 Q4"`
	DueDate          *time.Time    `json:"dueDate"`
	EstimatedMinutes *int          `json:"estimatedMinutes" binding:"omitempty,min=1,max=480"`
	Priority         *TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Tags             []string      `json:"tags" binding:"omitempty,max=10,dive,min=1,max=50"`
	Completed        *bool         `json:"completed"`
	Position         *int          `json:"position" binding:"omitempty,min=0"`
}

// MoveTaskInput 拖拽移动任务
type MoveTaskInput struct {
	Quadrant Quadrant `json:"quadrant" binding:"required,oneof=staging Q1 Q2 Q3 Q4"`
	Position int      `json:"position" binding:"min=0"`
}

type TaskFilter struct {
	Quadrant  Quadrant     `form:"quadrant" binding:"omitempty,oneof=staging Q1 Q2 Q3 Q4"`
	GoalID    string       `form:"goalId" binding:"omitempty,uuid"`
	Completed *bool        `form:"completed"`
	IsStaged  *bool        `form:"isStaged"`
	Priority  TaskPriority `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Tags      []string     `form:"tags"`
	Limit     int          `form:"limit" binding:"omitempty,min=1,max=1000"`
	Offset    int          `form:"offset" binding:"omitempty,min=0"`
}

type CreateSubtaskInput struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Position *int   `json:"position" binding:"omitempty,min=0"`
}

type UpdateSubtaskInput struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=200"`
	Completed *bool   `json:"completed"`
	Position  *int    `json:"position" binding:"omitempty,min=0"`
}
