package types

import "time"

// Window is the reporting period as it is shown to clients.
type Window struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
}

// Summary counts over the activity set (Closed counts the closed set).
type AnalyticsSummary struct {
	Total    int64 `json:"total"`
	Resolved int64 `json:"resolved"`
	Pending  int64 `json:"pending"`
	Overdue  int64 `json:"overdue"`
	Reopened int64 `json:"reopened"`
	Critical int64 `json:"critical"`
	Closed   int64 `json:"closed"`
}

type TrendPoint struct {
	Date          string  `json:"date"`
	Complaints    int64   `json:"complaints"`
	Resolved      int64   `json:"resolved"`
	SLACompliance float64 `json:"sla_compliance"`
}

// BreakdownRow is one category or ward group.
type BreakdownRow struct {
	Key               string  `json:"key"`
	Name              string  `json:"name"`
	Count             int64   `json:"count"`
	Resolved          int64   `json:"resolved"`
	Percentage        float64 `json:"percentage"`
	AvgResolutionDays float64 `json:"avg_resolution_days"`
}

type CountByGroup struct {
	GroupName string `json:"group_name" db:"group_name"`
	Count     int64  `json:"count" db:"count"`
}

// ResolutionBucket counts closed complaints by resolution days; MaxDays 0 means open-ended.
type ResolutionBucket struct {
	Label   string `json:"label"`
	MinDays int    `json:"min_days"`
	MaxDays int    `json:"max_days"`
	Count   int64  `json:"count"`
}

type TeamPerformanceRow struct {
	MemberID          uint64  `json:"member_id"`
	Name              string  `json:"name"`
	Role              string  `json:"role"`
	Assigned          int64   `json:"assigned"`
	Resolved          int64   `json:"resolved"`
	AvgResolutionDays float64 `json:"avg_resolution_days"`
	Efficiency        float64 `json:"efficiency"`
}

// AggregateResult is built fresh for every request and never stored.
type AggregateResult struct {
	Window                 Window               `json:"window"`
	Summary                AnalyticsSummary     `json:"summary"`
	SLACompliance          float64              `json:"sla_compliance"`
	AvgResolutionDays      float64              `json:"avg_resolution_days"`
	AvgRating              float64              `json:"avg_rating"`
	Trend                  []TrendPoint         `json:"trend"`
	Categories             []BreakdownRow       `json:"categories"`
	Wards                  []BreakdownRow       `json:"wards"`
	StatusCounts           []CountByGroup       `json:"status_counts"`
	PriorityCounts         []CountByGroup       `json:"priority_counts"`
	ResolutionDistribution []ResolutionBucket   `json:"resolution_distribution"`
	Team                   []TeamPerformanceRow `json:"team,omitempty"`
}

// Delta is the percentage change of one metric against the previous period.
type Delta struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

type PeriodMetrics struct {
	Summary           AnalyticsSummary `json:"summary"`
	SLACompliance     float64          `json:"sla_compliance"`
	AvgResolutionDays float64          `json:"avg_resolution_days"`
}

type PeriodComparison struct {
	CurrentWindow  Window           `json:"current_window"`
	PreviousWindow Window           `json:"previous_window"`
	Current        PeriodMetrics    `json:"current"`
	Previous       PeriodMetrics    `json:"previous"`
	Deltas         map[string]Delta `json:"deltas"`
}

// UnifiedReport is the payload of the unified/analytics endpoints.
type UnifiedReport struct {
	*AggregateResult
	Comparison *PeriodComparison `json:"comparison"`
}

type Heatmap struct {
	XLabels []string  `json:"xLabels"`
	YLabels []string  `json:"yLabels"`
	Matrix  [][]int64 `json:"matrix"`
}

type Branding struct {
	AppName  string `json:"app_name"`
	LogoURL  string `json:"logo_url"`
	IDPrefix string `json:"id_prefix"`
}

// ExportRow is one denormalized complaint ready for CSV/PDF/XLSX rendering.
type ExportRow struct {
	DisplayID      string  `json:"display_id"`
	ID             uint64  `json:"id"`
	TypeKey        string  `json:"type"`
	TypeName       string  `json:"type_name"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	WardID         uint64  `json:"ward_id"`
	WardName       string  `json:"ward_name"`
	Area           string  `json:"area"`
	SubmittedOn    string  `json:"submitted_on"`
	ClosedOn       string  `json:"closed_on"`
	Deadline       string  `json:"deadline"`
	ResolutionDays *int    `json:"resolution_days"`
	SLAMet         *bool   `json:"sla_met"`
	AssignedToID   *uint64 `json:"assigned_to_id"`
	Rating         *int    `json:"rating"`
	ContactPhone   string  `json:"contact_phone"`
}

type ExportSummary struct {
	Window            Window           `json:"window"`
	Summary           AnalyticsSummary `json:"summary"`
	SLACompliance     float64          `json:"sla_compliance"`
	AvgResolutionDays float64          `json:"avg_resolution_days"`
}

type ExportReport struct {
	ExportID    string        `json:"export_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Branding    Branding      `json:"branding"`
	Summary     ExportSummary `json:"summary"`
	Rows        []ExportRow   `json:"rows"`
}
