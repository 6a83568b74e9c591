package constants

import "strings"

type Role string

const (
	RoleCitizen     Role = "citizen"
	RoleWardOfficer Role = "ward_officer"
	RoleMaintenance Role = "maintenance"
	RoleAdmin       Role = "admin"
)

// ParseRole accepts the role claim in any case. Unknown values come back as RoleCitizen,
// the narrowest scope.
func ParseRole(raw string) Role {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)

	switch v {
	case "admin", "administrator":
		return RoleAdmin
	case "ward_officer", "officer":
		return RoleWardOfficer
	case "maintenance", "maintenance_worker", "maintenance_team":
		return RoleMaintenance
	default:
		return RoleCitizen
	}
}

// CanSeeTeam reports whether the role gets the team performance block.
func (r Role) CanSeeTeam() bool {
	return r == RoleAdmin || r == RoleWardOfficer
}
