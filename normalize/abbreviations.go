package normalize

import "strings"

// Vendor price lists abbreviate model names to fit their column widths.
// The storefront shows the full commercial name.
var modelAbbreviations = map[string]string{
	"PWRGY":  "POWERGY",
	"SCORPN": "SCORPION",
	"S-A/T+": "SCORPION ALL TERRAIN PLUS",
}

// ExpandAbbreviations replaces known abbreviated model tokens with their full
// names. Expansions are applied longest-abbreviation-first so overlapping
// tokens resolve deterministically. Idempotent: full names are never
// themselves abbreviations.
func ExpandAbbreviations(text string) string {
	if text == "" {
		return ""
	}
	expanded := text
	for _, abbr := range abbreviationOrder {
		expanded = strings.ReplaceAll(expanded, abbr, modelAbbreviations[abbr])
	}
	return expanded
}

// HasAbbreviation reports whether text still contains a known abbreviation.
func HasAbbreviation(text string) bool {
	for abbr := range modelAbbreviations {
		if strings.Contains(text, abbr) {
			return true
		}
	}
	return false
}

var abbreviationOrder = func() []string {
	keys := make([]string, 0, len(modelAbbreviations))
	for k := range modelAbbreviations {
		keys = append(keys, k)
	}
	// insertion sort by descending length; the table is tiny
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && len(keys[j]) > len(keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}()
