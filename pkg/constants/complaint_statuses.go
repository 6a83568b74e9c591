package constants

import "strings"

// --- COMPLAINT STATUSES (match the codes stored in complaints.status) ---
const (
	StatusRegistered = "REGISTERED"
	StatusAssigned   = "ASSIGNED"
	StatusInProgress = "IN_PROGRESS"
	StatusResolved   = "RESOLVED"
	StatusClosed     = "CLOSED"
	StatusReopened   = "REOPENED"
)

var AllStatuses = []string{
	StatusRegistered,
	StatusAssigned,
	StatusInProgress,
	StatusResolved,
	StatusClosed,
	StatusReopened,
}

// --- PRIORITIES ---
const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

var AllPriorities = []string{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityCritical,
}

// IsResolvedStatus reports whether the complaint no longer needs work.
func IsResolvedStatus(code string) bool {
	return code == StatusResolved || code == StatusClosed
}

// NormalizeStatus returns the canonical status code or "" when the input is unknown.
func NormalizeStatus(raw string) string {
	return normalizeEnum(raw, AllStatuses)
}

// NormalizePriority returns the canonical priority code or "" when the input is unknown.
func NormalizePriority(raw string) string {
	return normalizeEnum(raw, AllPriorities)
}

func normalizeEnum(raw string, allowed []string) string {
	v := strings.ToUpper(strings.TrimSpace(raw))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	for _, a := range allowed {
		if a == v {
			return a
		}
	}
	return ""
}
