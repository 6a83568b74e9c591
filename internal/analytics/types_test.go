package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"complaint-analytics/internal/entities"
)

func TestTypeResolver_Canonical(t *testing.T) {
	r := NewTypeResolver(testDictionary())

	cases := map[string]string{
		"POTHOLE":                       "POTHOLE",
		"pothole":                       "POTHOLE",
		"1":                             "POTHOLE",
		" Road-Damage ":                 "POTHOLE",
		"Water Supply":                  "WATER",
		`{"id": 2, "name": "whatever"}`: "WATER",
		`{"code": "garbage"}`:           "GARBAGE",
		"Street light":                  "STREET_LIGHT",
		"":                              UnknownTypeKey,
		"  --  ":                        UnknownTypeKey,
		`{"label": "nothing useful"}`:   UnknownTypeKey,
	}
	for raw, want := range cases {
		assert.Equal(t, want, r.Canonical(raw), "raw %q", raw)
	}
}

func TestTypeResolver_NilResolverStillNormalizes(t *testing.T) {
	var r *TypeResolver
	assert.Equal(t, "WATER_SUPPLY", r.Canonical("water supply"))
	assert.Equal(t, "WATER_SUPPLY", r.Name("WATER_SUPPLY"))
	assert.False(t, r.Known("WATER_SUPPLY"))
}

func TestTypeResolver_FirstOwnerOfAliasWins(t *testing.T) {
	r := NewTypeResolver([]entities.ComplaintType{
		{ID: 7, Code: "DRAIN", Name: "Drainage", Aliases: []string{"flooding"}},
		{ID: 4, Code: "STORM", Name: "Storm damage", Aliases: []string{"flooding"}},
	})

	assert.Equal(t, "STORM", r.Canonical("flooding"))
	assert.Equal(t, "Drainage", r.Name("DRAIN"))
	assert.Equal(t, "STORM", r.Canonical("4"))
}

func TestCanonicalize_KeepsExistingKeys(t *testing.T) {
	records := []entities.Complaint{
		{ID: 1, RawType: "2"},
		{ID: 2, RawType: "2", TypeKey: "POTHOLE"},
	}
	Canonicalize(records, NewTypeResolver(testDictionary()))

	assert.Equal(t, "WATER", records[0].TypeKey)
	assert.Equal(t, "POTHOLE", records[1].TypeKey)
}

func collidingDictionary() []entities.ComplaintType {
	return []entities.ComplaintType{
		{ID: 1, Code: "ROAD", Name: "Road", Aliases: []string{"drain"}},
		{ID: 2, Code: "DRAIN", Name: "Drainage"},
	}
}

func TestTypeResolver_AliasNeverTakesAnotherTypesCode(t *testing.T) {
	r := NewTypeResolver(collidingDictionary())

	assert.Equal(t, "DRAIN", r.Canonical("2"))
	assert.Equal(t, "DRAIN", r.Canonical("DRAIN"))
	assert.Equal(t, "DRAIN", r.Canonical("drain"))
	assert.Equal(t, "ROAD", r.Canonical("1"))

	// canonical keys map to themselves
	for _, key := range []string{"ROAD", "DRAIN"} {
		assert.Equal(t, key, r.Canonical(r.Canonical(key)))
	}
}
