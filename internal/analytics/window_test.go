package analytics

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow_InclusiveDaysAndSwap(t *testing.T) {
	w := NewWindow(at(2024, 1, 3, 15), at(2024, 1, 1, 9), time.UTC)

	assert.Equal(t, at(2024, 1, 1, 0), w.Start)
	assert.Equal(t, at(2024, 1, 4, 0), w.End)
	assert.Equal(t, 3, w.Days())
	assert.True(t, w.Contains(at(2024, 1, 3, 23)))
	assert.False(t, w.Contains(at(2024, 1, 4, 0)))
}

func TestWindow_Previous(t *testing.T) {
	w := NewWindow(at(2024, 3, 1, 0), at(2024, 3, 10, 0), time.UTC)
	prev := w.Previous()

	assert.Equal(t, w.Start, prev.End)
	assert.Equal(t, w.Days(), prev.Days())
	assert.Equal(t, "2024-02-20", prev.View().From)
	assert.Equal(t, "2024-02-29", prev.View().To)
}

func TestWindow_DayIndexAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is 23 hours long in New York
	w := NewWindow(time.Date(2024, 3, 9, 0, 0, 0, 0, loc), time.Date(2024, 3, 11, 0, 0, 0, 0, loc), loc)

	assert.Equal(t, 3, w.Days())
	assert.Equal(t, 2, w.DayIndex(time.Date(2024, 3, 11, 0, 30, 0, 0, loc)))
	assert.Equal(t, 1, w.DayIndex(time.Date(2024, 3, 10, 23, 30, 0, 0, loc)))
	assert.Equal(t, -1, w.DayIndex(time.Date(2024, 3, 12, 0, 0, 0, 0, loc)))
}

func TestLastDays(t *testing.T) {
	w := LastDays(at(2024, 5, 31, 17), 30, time.UTC)

	assert.Equal(t, 30, w.Days())
	assert.Equal(t, "2024-05-02", w.View().From)
	assert.Equal(t, "2024-05-31", w.View().To)
}
