package stats

import (
	"context"

	"github.com/verte-zerg/zenfocus/internal/model"
)

// Source is the part of the store a report reads from.
type Source interface {
	ListPhases(ctx context.Context, filter model.HistoryFilter) ([]model.PhaseRecord, error)
	DailyTotals(ctx context.Context, filter model.HistoryFilter) ([]model.DayTotal, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Phases []model.PhaseRecord
	Days   []model.DayTotal
	Window int
}

// BuildReport loads phases and daily totals for the filter. Last limits the
// number of days; the phase log covers the same days.
func BuildReport(ctx context.Context, src Source, filter model.HistoryFilter) (Report, error) {
	days, err := src.DailyTotals(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	phaseFilter := filter
	phaseFilter.Last = 0
	if filter.Last > 0 && len(days) > 0 {
		first := days[0].Day
		if filter.Since == nil || first.After(*filter.Since) {
			phaseFilter.Since = &first
		}
	}
	phases, err := src.ListPhases(ctx, phaseFilter)
	if err != nil {
		return Report{}, err
	}
	window := filter.Window
	if window <= 0 {
		window = DefaultWindow
	}
	return Report{Phases: phases, Days: days, Window: window}, nil
}

// DefaultWindow is the moving-average width in days.
const DefaultWindow = 7
