package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"complaint-analytics/pkg/constants"
)

// SLAResolver answers "how many hours does this complaint type get". It is built once
// per request from the system configuration snapshot and never mutated afterwards.
type SLAResolver struct {
	hours        map[string]float64
	malformed    map[string]string
	defaultHours float64
	types        *TypeResolver
}

type slaCandidate struct {
	value string
	exact bool
}

// NewSLAResolver canonicalizes rule keys through types. When several keys alias the
// same type, the one spelled exactly as the canonical key wins; otherwise the first key
// in sorted order does.
func NewSLAResolver(rules map[string]string, defaultHours float64, types *TypeResolver) *SLAResolver {
	if !validHours(defaultHours) {
		defaultHours = constants.DefaultSLAHours
	}
	r := &SLAResolver{
		hours:        make(map[string]float64),
		malformed:    make(map[string]string),
		defaultHours: defaultHours,
		types:        types,
	}

	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	winners := make(map[string]slaCandidate, len(keys))
	for _, raw := range keys {
		canonical := types.Canonical(raw)
		exact := normalizeKey(raw) == canonical
		prev, seen := winners[canonical]
		if !seen || (exact && !prev.exact) {
			winners[canonical] = slaCandidate{value: rules[raw], exact: exact}
		}
	}

	for key, c := range winners {
		h, err := strconv.ParseFloat(strings.TrimSpace(c.value), 64)
		if err != nil || !validHours(h) {
			r.malformed[key] = c.value
			continue
		}
		r.hours[key] = h
	}
	return r
}

func validHours(h float64) bool {
	return h > 0 && !math.IsInf(h, 0) && !math.IsNaN(h)
}

// Resolve returns the allotted hours for a type. ok is false only when the type has a
// rule that could not be parsed; such records are left out of SLA compliance.
func (r *SLAResolver) Resolve(typeKey string) (hours float64, ok bool) {
	key := typeKey
	if !r.types.Known(key) {
		key = r.types.Canonical(typeKey)
	}
	if h, found := r.hours[key]; found {
		return h, true
	}
	if _, bad := r.malformed[key]; bad {
		return r.defaultHours, false
	}
	return r.defaultHours, true
}

// Hours is the plain lookup: the type's rule, or the default when it has none.
func (r *SLAResolver) Hours(typeKey string) float64 {
	h, _ := r.Resolve(typeKey)
	return h
}

// Allowance is Hours as a duration.
func (r *SLAResolver) Allowance(typeKey string) time.Duration {
	return time.Duration(r.Hours(typeKey) * float64(time.Hour))
}

func (r *SLAResolver) DefaultHours() float64 {
	return r.defaultHours
}

// Malformed lists canonical keys whose configured value is not a positive number.
func (r *SLAResolver) Malformed() []string {
	out := make([]string, 0, len(r.malformed))
	for k := range r.malformed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
