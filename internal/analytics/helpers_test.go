package analytics

import (
	"time"

	"github.com/aarondl/null/v8"

	"complaint-analytics/internal/entities"
	"complaint-analytics/pkg/constants"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func testDictionary() []entities.ComplaintType {
	return []entities.ComplaintType{
		{ID: 1, Code: "POTHOLE", Name: "Pothole", Aliases: []string{"road damage"}},
		{ID: 2, Code: "WATER", Name: "Water Supply"},
		{ID: 3, Code: "GARBAGE", Name: "Garbage"},
	}
}

func testWards() []entities.Ward {
	return []entities.Ward{
		{ID: 1, Code: "W1", Name: "North"},
		{ID: 2, Code: "W2", Name: "East"},
	}
}

func open(id uint64, rawType string, ward uint64, submitted time.Time) entities.Complaint {
	return entities.Complaint{
		ID:          id,
		RawType:     rawType,
		Status:      constants.StatusRegistered,
		Priority:    constants.PriorityMedium,
		WardID:      ward,
		SubmittedOn: submitted,
	}
}

func closedAt(c entities.Complaint, closedOn time.Time) entities.Complaint {
	c.Status = constants.StatusClosed
	c.ClosedOn = null.TimeFrom(closedOn)
	return c
}

func assignedTo(c entities.Complaint, member uint64) entities.Complaint {
	c.AssignedToID = null.Uint64From(member)
	return c
}

func adminPredicate(w Window) Predicate {
	return BuildPredicate(Identity{UserID: 1, Role: constants.RoleAdmin}, UserFilters{}, w, NewTypeResolver(testDictionary()))
}

func testSnapshot(now time.Time) Snapshot {
	types := NewTypeResolver(testDictionary())
	return Snapshot{
		SLA:       NewSLAResolver(nil, constants.DefaultSLAHours, types),
		Types:     types,
		WardNames: map[uint64]string{1: "North", 2: "East"},
		Now:       now,
	}
}
