package model

type GoalCategory string

const (
	CategoryCareer        GoalCategory = "career"
	CategoryHealth        GoalCategory = "health"
	CategoryRelationships GoalCategory = "relationships"
	CategoryLearning      GoalCategory = "learning"
	CategoryFinancial     GoalCategory = "financial"
	CategoryPersonal      GoalCategory = "personal"
)

var GoalCategories = []GoalCategory{
	CategoryCareer, CategoryHealth, CategoryRelationships,
	CategoryLearning, CategoryFinancial, CategoryPersonal,
}

func (c GoalCategory) Valid() bool {
	for _, v := range GoalCategories {
		if v == c {
			return true
		}
	}
	return false
}

type GoalTimeframe string

const (
	Timeframe3Months GoalTimeframe = "3_months"
	Timeframe6Months GoalTimeframe = "6_months"
	Timeframe1Year   GoalTimeframe = "1_year"
	TimeframeOngoing GoalTimeframe = "ongoing"
)

var GoalTimeframes = []GoalTimeframe{Timeframe3Months, Timeframe6Months, Timeframe1Year, TimeframeOngoing}

func (t GoalTimeframe) Valid() bool {
	switch t {
	case Timeframe3Months, Timeframe6Months, Timeframe1Year, TimeframeOngoing:
		return true
	}
	return false
}

// Goal 用户目标，归档后保留用于历史统计
// swagger:model Goal
type Goal struct {
	UUIDBase
	UserID      string        `gorm:"index;type:varchar(64);not null" json:"userId"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	Category    GoalCategory  `gorm:"size:20;not null" json:"category"`
	Timeframe   GoalTimeframe `gorm:"size:20;not null" json:"timeframe"`
	Color       string        `gorm:"size:50" json:"color,omitempty"`
	Archived    bool          `gorm:"index;default:false" json:"archived"`
}

func (Goal) TableName() string {
	return "goals"
}
