package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 分析周期
const (
	Period7Days  = "7_days"
	Period30Days = "30_days"
	Period90Days = "90_days"
	Period1Year  = "1_year"
)

// PeriodDays 返回周期对应的天数，未知周期返回 0
func PeriodDays(period string) int {
	switch period {
	case Period7Days:
		return 7
	case Period30Days:
		return 30
	case Period90Days:
		return 90
	case Period1Year:
		return 365
	}
	return 0
}
