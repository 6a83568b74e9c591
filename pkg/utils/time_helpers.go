package utils

import (
	"strings"
	"time"
)

var dateParamLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDateParam reads a date query parameter as a calendar date or a timestamp.
// Date-only and zone-less values are taken in loc. ok is false for empty or malformed
// input, which callers treat as "not given".
func ParseDateParam(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateParamLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
