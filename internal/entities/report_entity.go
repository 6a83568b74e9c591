package entities

import "time"

// AnalyticsFilter is the parsed report query shared by all report endpoints.
// Nil dates mean "use the default window".
type AnalyticsFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	WardID   *uint64
	Type     string
	Status   string
	Priority string
}
