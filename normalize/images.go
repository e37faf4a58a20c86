package normalize

import "strings"

// PlaceholderImageURL is the sentinel assigned to products without a mapped
// product photo.
const PlaceholderImageURL = "/mock-tire.png"

// modelImages maps commercial model names to photo files shipped with the
// storefront. Longer (more specific) names must win over their prefixes:
// "Scorpion Verde All Season" before "Scorpion Verde" before "Scorpion".
var modelImages = map[string]string{
	"CINTURATO P1":              "Cinturato-P1-Verde-1505470090255.webp",
	"CINTURATO P7":              "cinturato-p7-4505517104514.webp",
	"SCORPION HT":               "Scorpion-HT-4505525112686.webp",
	"SCORPION VERDE ALL SEASON": "Pirelli-Scorpion-Verde-All-Season-off-low-01-1505470075906.webp",
	"SCORPION VERDE":            "Scorpion-Verde-1505470074533.webp",
	"SCORPION ZERO ALL SEASON":  "Scorpion-Zero-All-Season-1505470086399.webp",
	"SCORPION ZERO ASIMMETRICO": "Scorpion-Zero-Asimmetrico-1505470076172.webp",
	"SCORPION ZERO":             "Scorpion-Zero-1505470088294.webp",
	"SCORPION ATR":              "Scorpion-Atr-1505470067539.webp",
	"SCORPION MTR":              "Scorpion-MTR-1505470071047.webp",
	"SCORPION ALL TERRAIN PLUS": "Scorpion-All-Terrain-Plus-4505483375619.webp",
	"SCORPION":                  "Scorpion-4505525112390.webp",
	"P ZERO CORSA SYSTEM":       "Pzero-Corsa-System-Direzionale-1505470088408.webp",
	"P ZERO CORSA":              "Pzero-Corsa-PZC4-1505470090635.webp",
	"P ZERO":                    "Pzero-Nuovo-1505470072726.webp",
	"P400 EVO":                  "P400Evo_review_3-4.webp",
	"CHRONO":                    "Chrono-1505470062195.webp",
	"POWERGY":                   "Powergy-4505525112389.webp",
}

var modelImageOrder = func() []string {
	keys := make([]string, 0, len(modelImages))
	for k := range modelImages {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && len(keys[j]) > len(keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}()

// ImageForModel returns the photo file for the most specific model name
// contained in text, or false when no model matches.
func ImageForModel(text string) (string, bool) {
	upper := strings.ToUpper(text)
	for _, model := range modelImageOrder {
		if strings.Contains(upper, model) {
			return modelImages[model], true
		}
	}
	return "", false
}
