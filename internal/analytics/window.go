package analytics

import (
	"time"

	"complaint-analytics/pkg/types"
)

const dateLayout = "2006-01-02"

// Window is a range of whole calendar days, Start inclusive and End exclusive,
// both at midnight in the bucketing location.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow covers every calendar day from `from` to `to` inclusive. Arguments are
// reduced to their date in loc; a reversed range is swapped.
func NewWindow(from, to time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	start := midnight(from, loc)
	last := midnight(to, loc)
	if last.Before(start) {
		start, last = last, start
	}
	return Window{Start: start, End: last.AddDate(0, 0, 1)}
}

// LastDays is the window of n days ending with the day of now.
func LastDays(now time.Time, n int, loc *time.Location) Window {
	if n < 1 {
		n = 1
	}
	return NewWindow(now.AddDate(0, 0, -(n - 1)), now, loc)
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days counts calendar days in the window.
func (w Window) Days() int {
	return dayNumber(w.End) - dayNumber(w.Start)
}

// Previous is the window of the same day count that ends where w starts.
func (w Window) Previous() Window {
	return Window{Start: w.Start.AddDate(0, 0, -w.Days()), End: w.Start}
}

// DayIndex is the trend bucket of t, or -1 when t is outside the window.
func (w Window) DayIndex(t time.Time) int {
	if !w.Contains(t) {
		return -1
	}
	return dayNumber(t.In(w.Start.Location())) - dayNumber(w.Start)
}

// Day returns the date of bucket i.
func (w Window) Day(i int) time.Time {
	return w.Start.AddDate(0, 0, i)
}

func (w Window) View() types.Window {
	return types.Window{
		From: w.Start.Format(dateLayout),
		To:   w.End.AddDate(0, 0, -1).Format(dateLayout),
		Days: w.Days(),
	}
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// dayNumber is the civil day count of t's own calendar date, so DST shifts never
// move a timestamp into the neighbouring bucket.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
