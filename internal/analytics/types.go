// Package analytics is the complaint aggregation core: SLA rule resolution, role scoping,
// single-pass aggregation, period comparison, heatmap and export shaping.
// Nothing here touches HTTP, SQL connections or caches; callers hand in a ledger snapshot.
package analytics

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"complaint-analytics/internal/entities"
)

// UnknownTypeKey is the canonical key of complaints that carry no type at all.
const UnknownTypeKey = "UNKNOWN"

// TypeResolver maps every spelling of a complaint type (numeric id, code, name, legacy
// aliases, JSON object) to one canonical key. A nil resolver still normalizes.
type TypeResolver struct {
	lookup map[string]string
	names  map[string]string
}

func NewTypeResolver(dict []entities.ComplaintType) *TypeResolver {
	r := &TypeResolver{
		lookup: make(map[string]string),
		names:  make(map[string]string),
	}

	sorted := make([]entities.ComplaintType, len(dict))
	copy(sorted, dict)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	// Own keys and ids go in before any name or alias, so an alias can never steal
	// another type's key and Canonical stays idempotent.
	for _, ct := range sorted {
		key := TypeKeyOf(ct)
		if key == "" {
			continue
		}
		if _, exists := r.names[key]; !exists {
			name := strings.TrimSpace(ct.Name)
			if name == "" {
				name = key
			}
			r.names[key] = name
		}
		r.register(key, key)
		if ct.ID != 0 {
			r.register(strconv.FormatUint(ct.ID, 10), key)
		}
	}
	for _, ct := range sorted {
		key := TypeKeyOf(ct)
		if key == "" {
			continue
		}
		r.register(ct.Name, key)
		for _, alias := range ct.Aliases {
			r.register(alias, key)
		}
	}
	return r
}

// register keeps the first owner of a spelling; dictionary rows are visited by id.
func (r *TypeResolver) register(raw, key string) {
	n := normalizeKey(raw)
	if n == "" {
		return
	}
	if _, taken := r.lookup[n]; !taken {
		r.lookup[n] = key
	}
}

// Canonical never fails: unknown spellings normalize to
// an upper-snake key so they still group deterministically.
func (r *TypeResolver) Canonical(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		raw = typeFromObject(raw)
	}
	n := normalizeKey(raw)
	if n == "" {
		return UnknownTypeKey
	}
	if r != nil {
		if key, ok := r.lookup[n]; ok {
			return key
		}
	}
	return n
}

// Known reports whether key is a dictionary type.
func (r *TypeResolver) Known(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.names[key]
	return ok
}

// Name returns the display name for a canonical key, or the key itself.
func (r *TypeResolver) Name(key string) string {
	if r != nil {
		if name, ok := r.names[key]; ok {
			return name
		}
	}
	return key
}

// TypeKeyOf is the canonical key of a dictionary row: its code, or its name when the
// code is empty.
func TypeKeyOf(ct entities.ComplaintType) string {
	if key := normalizeKey(ct.Code); key != "" {
		return key
	}
	return normalizeKey(ct.Name)
}

// Canonicalize fills TypeKey on every record that does not have one yet.
func Canonicalize(records []entities.Complaint, r *TypeResolver) {
	for i := range records {
		if records[i].TypeKey == "" {
			records[i].TypeKey = r.Canonical(records[i].RawType)
		}
	}
}

// normalizeKey upper-cases and collapses every run of non-alphanumerics into "_".
func normalizeKey(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, ch := range strings.TrimSpace(s) {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToUpper(ch))
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// typeFromObject handles rows where the type was stored as a JSON object,
// e.g. {"id": 3, "name": "Water Supply"}. Code wins over id, id over name.
func typeFromObject(raw string) string {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return raw
	}
	for _, field := range []string{"code", "key", "id", "name"} {
		switch v := obj[field].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
