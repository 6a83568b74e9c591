package dto

import (
	"strconv"
	"strings"
	"time"

	"complaint-analytics/internal/entities"
	"complaint-analytics/pkg/constants"
	"complaint-analytics/pkg/utils"
)

// ReportQueryDTO is the query string shared by every report endpoint. Only the format is
// validated; the filters are narrowed by role later and bad values are dropped, not rejected.
type ReportQueryDTO struct {
	From     string `query:"from"`
	To       string `query:"to"`
	Ward     string `query:"ward"`
	Type     string `query:"type"`
	Status   string `query:"status"`
	Priority string `query:"priority"`
	Format   string `query:"format" validate:"export_format"`
}

// ToFilter converts the raw query. Unparseable dates and wards are dropped.
func (q ReportQueryDTO) ToFilter(loc *time.Location) entities.AnalyticsFilter {
	filter := entities.AnalyticsFilter{
		Type:     strings.TrimSpace(q.Type),
		Status:   q.Status,
		Priority: q.Priority,
	}
	if t, ok := utils.ParseDateParam(q.From, loc); ok {
		filter.DateFrom = &t
	}
	if t, ok := utils.ParseDateParam(q.To, loc); ok {
		filter.DateTo = &t
	}
	if ward := strings.TrimSpace(q.Ward); ward != "" {
		if id, err := strconv.ParseUint(ward, 10, 64); err == nil {
			filter.WardID = &id
		}
	}
	return filter
}

// ExportFormat is the requested export encoding, json when omitted.
func (q ReportQueryDTO) ExportFormat() string {
	if f := strings.ToLower(strings.TrimSpace(q.Format)); f != "" {
		return f
	}
	return constants.ExportFormatJSON
}
