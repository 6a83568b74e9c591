package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Complaint is one row of the complaint ledger as the analytics engine sees it.
// RawType is whatever the row carries (type id or legacy free-text name); TypeKey is
// filled once at ingestion with the canonical type code.
type Complaint struct {
	ID                uint64      `json:"id" db:"id"`
	RawType           string      `json:"-" db:"raw_type"`
	TypeKey           string      `json:"type" db:"-"`
	Status            string      `json:"status" db:"status"`
	Priority          string      `json:"priority" db:"priority"`
	WardID            uint64      `json:"ward_id" db:"ward_id"`
	SubmittedOn       time.Time   `json:"submitted_on" db:"submitted_on"`
	ClosedOn          null.Time   `json:"closed_on" db:"closed_on"`
	Deadline          null.Time   `json:"deadline" db:"deadline"`
	AssignedToID      null.Uint64 `json:"assigned_to_id" db:"assigned_to_id"`
	MaintenanceTeamID null.Uint64 `json:"maintenance_team_id" db:"maintenance_team_id"`
	SubmittedByID     null.Uint64 `json:"submitted_by_id" db:"submitted_by_id"`
	ContactPhone      string      `json:"contact_phone" db:"contact_phone"`
	Rating            null.Int    `json:"rating" db:"rating"`
	Area              string      `json:"area" db:"area"`
}

// IsAssignedTo reports whether the member owns the complaint either personally or
// through the maintenance team assignment.
func (c *Complaint) IsAssignedTo(memberID uint64) bool {
	if c.AssignedToID.Valid && c.AssignedToID.Uint64 == memberID {
		return true
	}
	return c.MaintenanceTeamID.Valid && c.MaintenanceTeamID.Uint64 == memberID
}
