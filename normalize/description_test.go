package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDescription_RemovesVendorCodes(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{"205/55R16 CINTURATO P7 (NB)x", "205/55R16 CINTURATO P7"},
		{"225/45R17 P ZERO (K1)", "225/45R17 P ZERO"},
		{"215/55R17 SCORPION VERDE wl", "215/55R17 SCORPION VERDE"},
		{"185/65R15 POWERGY   as", "185/65R15 POWERGY"},
		{"195/60R16  CHRONO  ", "195/60R16 CHRONO"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.out, CleanDescription(tc.in), "input %q", tc.in)
	}
}

func TestCleanDescription_Idempotent(t *testing.T) {
	inputs := []string{
		"205/55R16 CINTURATO P7 (NB)x wl",
		"31X10.50R15 SCORPION MTR (JP)",
		"plain text without codes",
	}
	for _, in := range inputs {
		once := CleanDescription(in)
		assert.Equal(t, once, CleanDescription(once), "cleaning %q twice diverged", in)
	}
}

func TestCleanCode_StripsBrackets(t *testing.T) {
	assert.Equal(t, "41232", CleanCode("[41232]"))
	assert.Equal(t, "387", CleanCode(" 387 "))
	assert.Equal(t, "387", CleanCode("[ 387 ]"))
	assert.Equal(t, "", CleanCode("[]"))
	assert.Equal(t, "", CleanCode(""))
}

func TestCleanCode_Idempotent(t *testing.T) {
	for _, in := range []string{"[41232]", "41232", "[ 99 ]", ""} {
		once := CleanCode(in)
		assert.Equal(t, once, CleanCode(once))
	}
}

func TestExpandAbbreviations(t *testing.T) {
	assert.Equal(t, "205/55R16 POWERGY", ExpandAbbreviations("205/55R16 PWRGY"))
	assert.Equal(t, "SCORPION ALL TERRAIN PLUS 265/60R18", ExpandAbbreviations("S-A/T+ 265/60R18"))
	assert.Equal(t, "no changes here", ExpandAbbreviations("no changes here"))

	// idempotent: full names never re-expand
	once := ExpandAbbreviations("SCORPN VERDE")
	assert.Equal(t, "SCORPION VERDE", once)
	assert.Equal(t, once, ExpandAbbreviations(once))
}

func TestImageForModel_MostSpecificWins(t *testing.T) {
	file, ok := ImageForModel("235/55R19 SCORPION VERDE ALL SEASON")
	assert.True(t, ok)
	assert.Equal(t, "Pirelli-Scorpion-Verde-All-Season-off-low-01-1505470075906.webp", file)

	file, ok = ImageForModel("scorpion verde 215/65r16")
	assert.True(t, ok)
	assert.Equal(t, "Scorpion-Verde-1505470074533.webp", file)

	_, ok = ImageForModel("175/70R13 UNKNOWN MODEL")
	assert.False(t, ok)
}
