package analytics

import (
	"sort"
	"strings"

	"complaint-analytics/internal/entities"
	"complaint-analytics/pkg/metrics"
	"complaint-analytics/pkg/types"
)

type heatmapAxis struct {
	key  string
	name string
}

// BuildMatrix counts in-scope records per ward (rows, yLabels) and complaint type
// (columns, xLabels). The matrix is always |wards| x |types|, zero-filled, with both
// axes sorted by name. Records pointing at a ward or type missing from the
// dictionaries are skipped; the second return value is how many.
func BuildMatrix(records []entities.Complaint, wards []entities.Ward, categories []entities.ComplaintType, resolver *TypeResolver) (types.Heatmap, int) {
	rows := make([]heatmapAxis, 0, len(wards))
	seenWard := make(map[uint64]bool, len(wards))
	for _, w := range wards {
		if seenWard[w.ID] {
			continue
		}
		seenWard[w.ID] = true
		name := strings.TrimSpace(w.Name)
		if name == "" {
			name = wardKey(w.ID)
		}
		rows = append(rows, heatmapAxis{key: wardKey(w.ID), name: name})
	}

	cols := make([]heatmapAxis, 0, len(categories))
	seenType := make(map[string]bool, len(categories))
	for _, ct := range categories {
		key := TypeKeyOf(ct)
		if key == "" || seenType[key] {
			continue
		}
		seenType[key] = true
		name := strings.TrimSpace(ct.Name)
		if name == "" {
			name = key
		}
		cols = append(cols, heatmapAxis{key: key, name: name})
	}

	sortAxis(rows)
	sortAxis(cols)

	rowIdx := make(map[string]int, len(rows))
	for i, r := range rows {
		rowIdx[r.key] = i
	}
	colIdx := make(map[string]int, len(cols))
	for i, c := range cols {
		colIdx[c.key] = i
	}

	hm := types.Heatmap{
		XLabels: make([]string, len(cols)),
		YLabels: make([]string, len(rows)),
		Matrix:  make([][]int64, len(rows)),
	}
	for i, c := range cols {
		hm.XLabels[i] = c.name
	}
	for i, r := range rows {
		hm.YLabels[i] = r.name
		hm.Matrix[i] = make([]int64, len(cols))
	}

	skipped := 0
	for i := range records {
		c := &records[i]
		key := c.TypeKey
		if key == "" {
			key = resolver.Canonical(c.RawType)
		}
		r, okRow := rowIdx[wardKey(c.WardID)]
		col, okCol := colIdx[key]
		if !okRow || !okCol {
			skipped++
			if !okRow {
				metrics.RecordAnomaly(AnomalyUnknownWard)
			} else {
				metrics.RecordAnomaly(AnomalyUnknownType)
			}
			continue
		}
		hm.Matrix[r][col]++
	}
	return hm, skipped
}

func sortAxis(axis []heatmapAxis) {
	sort.SliceStable(axis, func(i, j int) bool {
		ni, nj := strings.ToLower(axis[i].name), strings.ToLower(axis[j].name)
		if ni != nj {
			return ni < nj
		}
		return axis[i].key < axis[j].key
	})
}
