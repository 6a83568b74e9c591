package analytics

import (
	"sort"
	"strconv"

	"complaint-analytics/internal/entities"
	"complaint-analytics/pkg/constants"
	"complaint-analytics/pkg/types"
)

type groupStats struct {
	count        int64
	resolved     int64
	closed       int64
	closedDaySum int64
}

func (g *groupStats) addActivity(resolved bool) {
	g.count++
	if resolved {
		g.resolved++
	}
}

func (g *groupStats) addClosed(days int) {
	g.closed++
	g.closedDaySum += int64(days)
}

// groupSet keys breakdown rows by type key or ward id.
type groupSet struct {
	groups map[string]*groupStats
}

func newGroupSet() *groupSet {
	return &groupSet{groups: make(map[string]*groupStats)}
}

func (s *groupSet) get(key string) *groupStats {
	g, ok := s.groups[key]
	if !ok {
		g = &groupStats{}
		s.groups[key] = g
	}
	return g
}

// rows emits one row per group, largest first. Average resolution only uses the
// group's closed-set members; percentage is of the activity total.
func (s *groupSet) rows(total int64, name func(key string) string) []types.BreakdownRow {
	out := make([]types.BreakdownRow, 0, len(s.groups))
	for key, g := range s.groups {
		out = append(out, types.BreakdownRow{
			Key:               key,
			Name:              name(key),
			Count:             g.count,
			Resolved:          g.resolved,
			Percentage:        pct(g.count, total),
			AvgResolutionDays: avg(g.closedDaySum, g.closed),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func wardKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func parseWardKey(key string) uint64 {
	id, _ := strconv.ParseUint(key, 10, 64)
	return id
}

type memberStats struct {
	member       entities.TeamMember
	assigned     int64
	resolved     int64
	closed       int64
	closedDaySum int64
}

// teamSet tracks active officers and maintenance workers of the roster.
type teamSet struct {
	members []*memberStats
}

func newTeamSet(roster []entities.TeamMember, ward *uint64) *teamSet {
	t := &teamSet{}
	for _, m := range roster {
		if !m.IsActive {
			continue
		}
		role := constants.ParseRole(m.Role)
		if role != constants.RoleWardOfficer && role != constants.RoleMaintenance {
			continue
		}
		if ward != nil && m.WardID != *ward {
			continue
		}
		m.Role = string(role)
		t.members = append(t.members, &memberStats{member: m})
	}
	return t
}

func (t *teamSet) addActivity(c *entities.Complaint, resolved bool) {
	for _, m := range t.members {
		if !c.IsAssignedTo(m.member.ID) {
			continue
		}
		m.assigned++
		if resolved {
			m.resolved++
		}
	}
}

func (t *teamSet) addClosed(c *entities.Complaint, days int) {
	for _, m := range t.members {
		if c.IsAssignedTo(m.member.ID) {
			m.closed++
			m.closedDaySum += int64(days)
		}
	}
}

func (t *teamSet) rows() []types.TeamPerformanceRow {
	out := make([]types.TeamPerformanceRow, 0, len(t.members))
	for _, m := range t.members {
		out = append(out, types.TeamPerformanceRow{
			MemberID:          m.member.ID,
			Name:              m.member.Name,
			Role:              m.member.Role,
			Assigned:          m.assigned,
			Resolved:          m.resolved,
			AvgResolutionDays: avg(m.closedDaySum, m.closed),
			Efficiency:        pct(m.resolved, m.assigned),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resolved != out[j].Resolved {
			return out[i].Resolved > out[j].Resolved
		}
		if out[i].Assigned != out[j].Assigned {
			return out[i].Assigned > out[j].Assigned
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out
}
