package analytics

import (
	"fmt"
	"iter"
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/util"
	"time"
)

// Window 闭区间 [Start, End]，均为所在时区的零点
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow 校验日期区间，maxDays 为允许的最大天数（含首尾），0 表示不限制
func NewWindow(start, end time.Time, maxDays int) (Window, error) {
	w := Window{Start: StartOfDay(start), End: StartOfDay(end.In(start.Location()))}
	if w.End.Before(w.Start) {
		return Window{}, util.NewValidationError("end_date", "end_date must not be before start_date")
	}
	if maxDays > 0 && w.Days() > maxDays {
		return Window{}, util.NewValidationError("end_date", fmt.Sprintf("date range must not exceed %d days", maxDays))
	}
	return w, nil
}

// TrailingWindow 截至 now 当天（含）的最近 days 天
func TrailingWindow(now time.Time, days int) Window {
	if days <= 0 {
		days = 1
	}
	end := StartOfDay(now)
	return Window{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}

// ParseWindow 解析 YYYY-MM-DD 格式的起止日期
func ParseWindow(start, end string, loc *time.Location, maxDays int) (Window, error) {
	s, err := time.ParseInLocation(util.DateFormat, start, loc)
	if err != nil {
		return Window{}, util.NewValidationError("start_date", "expected format YYYY-MM-DD")
	}
	e, err := time.ParseInLocation(util.DateFormat, end, loc)
	if err != nil {
		return Window{}, util.NewValidationError("end_date", "expected format YYYY-MM-DD")
	}
	return NewWindow(s, e, maxDays)
}

// Days 区间内的天数
func (w Window) Days() int {
	n := 0
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// Contains day 是否落在区间内，day 须为零点
func (w Window) Contains(day time.Time) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}

// Trends 按天生成趋势序列，按日期升序，没有数据的日期也会输出。
// 返回的序列可以重复遍历。
func Trends(tasks []model.Task, w Window) iter.Seq[model.TrendPoint] {
	return func(yield func(model.TrendPoint) bool) {
		for day := w.Start; !day.After(w.End); day = day.AddDate(0, 0, 1) {
			if !yield(trendPoint(tasks, day, day.AddDate(0, 0, 1))) {
				return
			}
		}
	}
}

// trendPoint 统计 [day, next) 这一天的数据，active 以当天结束时的状态为准
func trendPoint(tasks []model.Task, day, next time.Time) model.TrendPoint {
	p := model.TrendPoint{Date: DayKey(day)}
	for _, t := range tasks {
		if within(t.CreatedAt, day, next) {
			p.Created++
		}
		if t.CompletedAt != nil && within(*t.CompletedAt, day, next) {
			p.Completed++
		}
		if t.CreatedAt.Before(next) && (t.CompletedAt == nil || !t.CompletedAt.Before(next)) {
			p.Active++
		}
	}
	return p
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
