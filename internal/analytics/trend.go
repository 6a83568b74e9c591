package analytics

import (
	"time"

	"complaint-analytics/pkg/types"
)

type trendDay struct {
	complaints   int64
	resolved     int64
	slaEvaluated int64
	slaMet       int64
}

// trendSeries is dense: one slot per calendar day of the window, allocated up front.
type trendSeries struct {
	window Window
	days   []trendDay
}

func newTrendSeries(w Window) *trendSeries {
	n := w.Days()
	if n < 0 {
		n = 0
	}
	return &trendSeries{window: w, days: make([]trendDay, n)}
}

func (t *trendSeries) submitted(at time.Time) {
	if i := t.window.DayIndex(at); i >= 0 && i < len(t.days) {
		t.days[i].complaints++
	}
}

// closed attributes a resolution to the day it was closed on.
func (t *trendSeries) closed(at time.Time, slaMet, slaEvaluable bool) {
	i := t.window.DayIndex(at)
	if i < 0 || i >= len(t.days) {
		return
	}
	d := &t.days[i]
	d.resolved++
	if slaEvaluable {
		d.slaEvaluated++
		if slaMet {
			d.slaMet++
		}
	}
}

func (t *trendSeries) points() []types.TrendPoint {
	out := make([]types.TrendPoint, len(t.days))
	for i, d := range t.days {
		out[i] = types.TrendPoint{
			Date:          t.window.Day(i).Format(dateLayout),
			Complaints:    d.complaints,
			Resolved:      d.resolved,
			SLACompliance: pct(d.slaMet, d.slaEvaluated),
		}
	}
	return out
}
