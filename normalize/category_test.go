package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intRef(v int) *int { return &v }

func TestMapCategory_PriorityOrder(t *testing.T) {
	testCases := []struct {
		name     string
		desc     string
		width    *int
		expected Category
	}{
		{"moto marker", "130/70-17 M/C 62S TL", intRef(130), CategoryMoto},
		{"moto beats width", "SUPER CITY 275/40R20", intRef(275), CategoryMoto},
		{"truck marker LT", "700R16 ANTEO PROFESIONAL LT", nil, CategoryCamion},
		{"truck marker CHRONO", "195/70R15 CHRONO", intRef(195), CategoryCamion},
		{"wide is camioneta", "245/45R18 SOMETHING", intRef(245), CategoryCamioneta},
		{"scorpion is camioneta", "215/65R16 SCORPION VERDE", intRef(215), CategoryCamioneta},
		{"default auto", "175/65R14 P400 EVO", intRef(175), CategoryAuto},
		{"no width still maps", "PATCH KIT", nil, CategoryAuto},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MapCategory(tc.desc, tc.width))
		})
	}
}

// Every input maps to exactly one of the four values; never empty.
func TestMapCategory_Total(t *testing.T) {
	valid := map[Category]bool{
		CategoryAuto: true, CategoryCamioneta: true, CategoryCamion: true, CategoryMoto: true,
	}
	inputs := []string{"", "garbage", "205/55R16", "XX YY ZZ", "MOTO", "4X4 SUV LT M/C"}
	for _, in := range inputs {
		got := MapCategory(in, nil)
		assert.True(t, valid[got], "MapCategory(%q) = %q", in, got)
	}
}

func TestMapVendorCategory(t *testing.T) {
	assert.Equal(t, CategoryCamioneta, MapVendorCategory("SUV", "whatever", nil))
	assert.Equal(t, CategoryCamioneta, MapVendorCategory("CAMIONETA", "whatever", nil))
	assert.Equal(t, CategoryCamion, MapVendorCategory("CAMION", "whatever", nil))
	assert.Equal(t, CategoryMoto, MapVendorCategory("MOTO", "whatever", nil))

	// Ambiguous vendor buckets fall back to the description heuristics.
	assert.Equal(t, CategoryAuto, MapVendorCategory("CON", "175/65R14 P400 EVO", intRef(175)))
	assert.Equal(t, CategoryCamioneta, MapVendorCategory("CAR", "265/70R16 SCORPION ATR", intRef(265)))
	assert.Equal(t, CategoryAuto, MapVendorCategory("", "175/65R14 P1", intRef(175)))
}
