package stats

import (
	"sort"

	"github.com/verte-zerg/zenfocus/internal/model"
)

// TopDays returns up to n days ordered by focus time, most first. Ties go
// to the earlier day.
func TopDays(days []model.DayTotal, n int) []model.DayTotal {
	if n <= 0 || len(days) == 0 {
		return nil
	}
	sorted := make([]model.DayTotal, 0, len(days))
	for _, d := range days {
		if d.FocusSessions > 0 {
			sorted = append(sorted, d)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FocusTime == sorted[j].FocusTime {
			return sorted[i].Day.Before(sorted[j].Day)
		}
		return sorted[i].FocusTime > sorted[j].FocusTime
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
