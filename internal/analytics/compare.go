package analytics

import (
	"context"
	"strconv"
	"sync"

	"complaint-analytics/pkg/types"
)

// AggregateFunc computes the aggregate for one predicate. The comparator calls the
// same function for both windows, so the previous period goes through exactly the
// same reads and engine as the current one.
type AggregateFunc func(ctx context.Context, pred Predicate) (*types.AggregateResult, error)

// ComparePeriods runs fn for pred's window and for the preceding window of equal
// length concurrently, and returns the current aggregate with its comparison block.
func ComparePeriods(ctx context.Context, pred Predicate, fn AggregateFunc) (*types.AggregateResult, *types.PeriodComparison, error) {
	previousPred := pred.WithWindow(pred.Window.Previous())

	var (
		wg       sync.WaitGroup
		current  *types.AggregateResult
		previous *types.AggregateResult
		errs     [2]error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		current, errs[0] = fn(ctx, pred)
	}()
	go func() {
		defer wg.Done()
		previous, errs[1] = fn(ctx, previousPred)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	return current, BuildComparison(current, previous), nil
}

// BuildComparison derives the per-metric deltas of two aggregates.
func BuildComparison(current, previous *types.AggregateResult) *types.PeriodComparison {
	cur, prev := metricsOf(current), metricsOf(previous)
	cmp := &types.PeriodComparison{
		Current:  cur,
		Previous: prev,
		Deltas: map[string]types.Delta{
			"total":               DeltaOf(float64(cur.Summary.Total), float64(prev.Summary.Total)),
			"resolved":            DeltaOf(float64(cur.Summary.Resolved), float64(prev.Summary.Resolved)),
			"pending":             DeltaOf(float64(cur.Summary.Pending), float64(prev.Summary.Pending)),
			"overdue":             DeltaOf(float64(cur.Summary.Overdue), float64(prev.Summary.Overdue)),
			"reopened":            DeltaOf(float64(cur.Summary.Reopened), float64(prev.Summary.Reopened)),
			"critical":            DeltaOf(float64(cur.Summary.Critical), float64(prev.Summary.Critical)),
			"closed":              DeltaOf(float64(cur.Summary.Closed), float64(prev.Summary.Closed)),
			"sla_compliance":      DeltaOf(cur.SLACompliance, prev.SLACompliance),
			"avg_resolution_days": DeltaOf(cur.AvgResolutionDays, prev.AvgResolutionDays),
		},
	}
	if current != nil {
		cmp.CurrentWindow = current.Window
	}
	if previous != nil {
		cmp.PreviousWindow = previous.Window
	}
	return cmp
}

func metricsOf(r *types.AggregateResult) types.PeriodMetrics {
	if r == nil {
		return types.PeriodMetrics{}
	}
	return types.PeriodMetrics{
		Summary:           r.Summary,
		SLACompliance:     r.SLACompliance,
		AvgResolutionDays: r.AvgResolutionDays,
	}
}

// DeltaOf is the percentage change from prev to cur. A metric that was zero reads
// "+100%" when it appeared and "0%" when it stayed zero.
func DeltaOf(cur, prev float64) types.Delta {
	if prev == 0 {
		if cur > 0 {
			return types.Delta{Value: 100, Label: "+100%"}
		}
		return types.Delta{Value: 0, Label: "0%"}
	}
	v := round1((cur - prev) / prev * 100)
	if v == 0 {
		return types.Delta{Value: 0, Label: "0%"}
	}
	label := strconv.FormatFloat(v, 'f', -1, 64) + "%"
	if v > 0 {
		label = "+" + label
	}
	return types.Delta{Value: v, Label: label}
}
