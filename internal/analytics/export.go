package analytics

import (
	"fmt"
	"time"

	"complaint-analytics/internal/entities"
	"complaint-analytics/pkg/constants"
	"complaint-analytics/pkg/types"
)

// DefaultIDPadWidth is the zero-padded width of the numeric part of display ids.
const DefaultIDPadWidth = 6

const exportTimeLayout = "2006-01-02 15:04"

type ExportOptions struct {
	IDPrefix  string
	PadWidth  int
	Types     *TypeResolver
	WardNames map[uint64]string
	SLA       *SLAResolver
	Location  *time.Location
}

// DisplayID renders a human readable complaint id such as "CMP-000042".
func DisplayID(prefix string, id uint64, width int) string {
	if width <= 0 {
		width = DefaultIDPadWidth
	}
	return fmt.Sprintf("%s%0*d", prefix, width, id)
}

// FormatExport flattens records into display rows in input order. It does no
// filtering: the caller has already scoped the records.
func FormatExport(records []entities.Complaint, opts ExportOptions) []types.ExportRow {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	sla := opts.SLA
	if sla == nil {
		sla = NewSLAResolver(nil, constants.DefaultSLAHours, opts.Types)
	}

	rows := make([]types.ExportRow, 0, len(records))
	for i := range records {
		c := &records[i]
		key := c.TypeKey
		if key == "" {
			key = opts.Types.Canonical(c.RawType)
		}

		row := types.ExportRow{
			DisplayID:    DisplayID(opts.IDPrefix, c.ID, opts.PadWidth),
			ID:           c.ID,
			TypeKey:      key,
			TypeName:     opts.Types.Name(key),
			Status:       c.Status,
			Priority:     c.Priority,
			WardID:       c.WardID,
			WardName:     opts.WardNames[c.WardID],
			Area:         c.Area,
			SubmittedOn:  formatTime(c.SubmittedOn, loc),
			ContactPhone: c.ContactPhone,
		}
		if row.WardName == "" {
			row.WardName = "Ward " + wardKey(c.WardID)
		}
		if c.Deadline.Valid {
			row.Deadline = formatTime(c.Deadline.Time, loc)
		}
		if c.AssignedToID.Valid {
			id := c.AssignedToID.Uint64
			row.AssignedToID = &id
		}
		if c.Rating.Valid {
			r := c.Rating.Int
			row.Rating = &r
		}
		if c.ClosedOn.Valid {
			row.ClosedOn = formatTime(c.ClosedOn.Time, loc)
			if !c.ClosedOn.Time.Before(c.SubmittedOn) {
				days := resolutionDays(c.SubmittedOn, c.ClosedOn.Time)
				row.ResolutionDays = &days
				if hours, ok := sla.Resolve(key); ok {
					met := !c.ClosedOn.Time.After(c.SubmittedOn.Add(hoursToDuration(hours)))
					row.SLAMet = &met
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(exportTimeLayout)
}
