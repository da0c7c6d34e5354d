package analytics

import (
	"quadrant_planner_backend/internal/model"
	"quadrant_planner_backend/internal/util"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendsThreeDayWindow(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	w, err := NewWindow(day1, day1.AddDate(0, 0, 2), 0)
	require.NoError(t, err)

	tk := task("t", model.QuadrantQ1)
	tk.CreatedAt = day1.AddDate(0, 0, 1).Add(10 * time.Hour)
	tk = completed(tk, day1.AddDate(0, 0, 2).Add(9*time.Hour))

	points := slices.Collect(Trends([]model.Task{tk}, w))
	require.Len(t, points, 3)

	assert.Equal(t, model.TrendPoint{Date: "2025-03-01"}, points[0])
	assert.Equal(t, model.TrendPoint{Date: "2025-03-02", Created: 1, Active: 1}, points[1])
	assert.Equal(t, model.TrendPoint{Date: "2025-03-03", Completed: 1, Active: 0}, points[2])
}

func TestTrendsRestartable(t *testing.T) {
	w := TrailingWindow(testNow, 7)
	seq := Trends([]model.Task{task("a", model.QuadrantQ2)}, w)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Len(t, first, 7)
	assert.Equal(t, first, second)
	assert.Equal(t, "2025-03-12", first[6].Date)
	assert.Equal(t, "2025-03-06", first[0].Date)
}

func TestTrendsEarlyStop(t *testing.T) {
	w := TrailingWindow(testNow, 30)
	var n int
	for range Trends(nil, w) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestTrendsActiveCarriesOver(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	old := task("old", model.QuadrantQ1)
	old.CreatedAt = start.AddDate(0, 0, -10)

	w, err := NewWindow(start, start.AddDate(0, 0, 4), 0)
	require.NoError(t, err)
	for p := range Trends([]model.Task{old}, w) {
		assert.Equal(t, 1, p.Active, p.Date)
		assert.Zero(t, p.Created)
	}
}

func TestNewWindowValidation(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := NewWindow(start, start.AddDate(0, 0, -1), 0)
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = NewWindow(start, start.AddDate(0, 0, 30), 30)
	assert.ErrorIs(t, err, util.ErrValidation)

	w, err := NewWindow(start, start.AddDate(0, 0, 29), 30)
	require.NoError(t, err)
	assert.Equal(t, 30, w.Days())

	w, err = NewWindow(start.Add(5*time.Hour), start.Add(7*time.Hour), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Days())
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("2025-01-01", "2025-01-31", time.UTC, 366)
	require.NoError(t, err)
	assert.Equal(t, 31, w.Days())

	_, err = ParseWindow("01/01/2025", "2025-01-31", time.UTC, 366)
	assert.ErrorIs(t, err, util.ErrValidation)
}
