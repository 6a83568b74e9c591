package analytics

import (
	sq "github.com/Masterminds/squirrel"

	"complaint-analytics/internal/entities"
	"complaint-analytics/pkg/constants"
)

// Identity is the already-authenticated caller.
type Identity struct {
	UserID uint64
	Role   constants.Role
	WardID uint64
}

// UserFilters are the optional narrowing filters from the query string. Status and
// Priority are raw user input.
type UserFilters struct {
	WardID   *uint64
	Type     string
	Status   string
	Priority string
}

// Predicate is the record-selection rule for one caller and one window. The same
// rule is exposed for in-memory matching and as SQL.
type Predicate struct {
	Role          constants.Role
	Window        Window
	WardID        *uint64
	AssigneeID    *uint64
	SubmittedByID *uint64
	TypeKey       string
	Status        string
	Priority      string
	DenyAll       bool
}

// BuildPredicate applies role scoping first, then the user filters the role is allowed
// to set. Non-admin ward filters are overridden without an error, unknown status and
// priority values are dropped.
func BuildPredicate(id Identity, f UserFilters, w Window, types *TypeResolver) Predicate {
	p := Predicate{
		Role:     id.Role,
		Window:   w,
		Status:   constants.NormalizeStatus(f.Status),
		Priority: constants.NormalizePriority(f.Priority),
	}
	if f.Type != "" {
		p.TypeKey = types.Canonical(f.Type)
	}

	switch id.Role {
	case constants.RoleAdmin:
		if f.WardID != nil {
			ward := *f.WardID
			p.WardID = &ward
		}
	case constants.RoleWardOfficer:
		if id.WardID == 0 {
			p.DenyAll = true
			break
		}
		ward := id.WardID
		p.WardID = &ward
	case constants.RoleMaintenance:
		if id.UserID == 0 {
			p.DenyAll = true
			break
		}
		user := id.UserID
		p.AssigneeID = &user
	default:
		// citizens and anything unrecognised only see what they submitted
		p.Role = constants.RoleCitizen
		if id.UserID == 0 {
			p.DenyAll = true
			break
		}
		user := id.UserID
		p.SubmittedByID = &user
	}
	return p
}

// WithWindow is the same predicate over another window; used by the period comparator.
func (p Predicate) WithWindow(w Window) Predicate {
	p.Window = w
	return p
}

// Match checks scope and attribute filters, ignoring dates. Records must already be
// canonicalized when a type filter is set.
func (p Predicate) Match(c *entities.Complaint) bool {
	if p.DenyAll {
		return false
	}
	if p.WardID != nil && c.WardID != *p.WardID {
		return false
	}
	if p.AssigneeID != nil && !c.IsAssignedTo(*p.AssigneeID) {
		return false
	}
	if p.SubmittedByID != nil && (!c.SubmittedByID.Valid || c.SubmittedByID.Uint64 != *p.SubmittedByID) {
		return false
	}
	if p.TypeKey != "" && c.TypeKey != p.TypeKey {
		return false
	}
	if p.Status != "" && c.Status != p.Status {
		return false
	}
	if p.Priority != "" && c.Priority != p.Priority {
		return false
	}
	return true
}

// InActivity selects records submitted inside the window.
func (p Predicate) InActivity(c *entities.Complaint) bool {
	return p.Match(c) && p.Window.Contains(c.SubmittedOn)
}

// InClosed selects records closed inside the window.
func (p Predicate) InClosed(c *entities.Complaint) bool {
	return p.Match(c) &&
		c.Status == constants.StatusClosed &&
		c.ClosedOn.Valid &&
		p.Window.Contains(c.ClosedOn.Time)
}

// ScopeSql is the role scope plus ward/status/priority filters. The type filter is
// applied in memory after canonicalization.
func (p Predicate) ScopeSql() sq.Sqlizer {
	if p.DenyAll {
		return sq.Expr("1 = 0")
	}

	preds := sq.And{}
	if p.WardID != nil {
		preds = append(preds, sq.Eq{"c.ward_id": *p.WardID})
	}
	if p.AssigneeID != nil {
		preds = append(preds, sq.Or{
			sq.Eq{"c.assigned_to_id": *p.AssigneeID},
			sq.Eq{"c.maintenance_team_id": *p.AssigneeID},
		})
	}
	if p.SubmittedByID != nil {
		preds = append(preds, sq.Eq{"c.submitted_by_id": *p.SubmittedByID})
	}
	if p.Status != "" {
		preds = append(preds, sq.Eq{"c.status": p.Status})
	}
	if p.Priority != "" {
		preds = append(preds, sq.Eq{"c.priority": p.Priority})
	}
	return preds
}

func (p Predicate) activityRange() sq.Sqlizer {
	return sq.And{
		sq.GtOrEq{"c.submitted_on": p.Window.Start},
		sq.Lt{"c.submitted_on": p.Window.End},
	}
}

func (p Predicate) closedRange() sq.Sqlizer {
	return sq.And{
		sq.Eq{"c.status": constants.StatusClosed},
		sq.GtOrEq{"c.closed_on": p.Window.Start},
		sq.Lt{"c.closed_on": p.Window.End},
	}
}

// ActivitySql selects the activity set.
func (p Predicate) ActivitySql() sq.Sqlizer {
	return sq.And{p.ScopeSql(), p.activityRange()}
}

// ClosedSql selects the closed set.
func (p Predicate) ClosedSql() sq.Sqlizer {
	return sq.And{p.ScopeSql(), p.closedRange()}
}

// LedgerSql selects the union of both sets in one query.
func (p Predicate) LedgerSql() sq.Sqlizer {
	return sq.And{p.ScopeSql(), sq.Or{p.activityRange(), p.closedRange()}}
}
