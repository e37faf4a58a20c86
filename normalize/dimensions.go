// Package normalize turns raw vendor spreadsheet text into the structured
// fields the catalog stores: tire dimensions, cleaned descriptions, product
// codes usable as join keys and the fixed category enum.
package normalize

import (
	"regexp"
	"strconv"
)

// Dimensions holds the parsed tire size. All fields are nil when the text
// carries no recognizable size; nil must never be collapsed to zero.
type Dimensions struct {
	Width       *int
	AspectRatio *int
	RimDiameter *int
}

func (d Dimensions) Complete() bool {
	return d.Width != nil && d.AspectRatio != nil && d.RimDiameter != nil
}

func (d Dimensions) Empty() bool {
	return d.Width == nil && d.AspectRatio == nil && d.RimDiameter == nil
}

// Metric size patterns, most specific first. The first match wins.
var metricPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{3})/(\d{2})R(\d{2})`),        // 205/55R16
	regexp.MustCompile(`(\d{3})/(\d{2})\s*R\s*(\d{2})`),  // 205/55 R 16
	regexp.MustCompile(`(\d{3})/(\d{2})[-\s]+R(\d{2})`),  // 205/55-R16
	regexp.MustCompile(`(\d{3})/(\d{2})[A-Z]R(\d{2})`),   // 205/55ZR16
}

var (
	// Flotation sizes use inches: 31X10.50R15.
	inchPattern = regexp.MustCompile(`(?i)(\d{2,3})X(\d{1,2}\.?\d*)R(\d{2})`)
	// Bias-ply sizes like 6.00-16 only reveal the rim diameter.
	dashPattern = regexp.MustCompile(`(\d+)\.(\d+)-(\d{2})`)
	// Last resort for odd vendor formats such as 5.20S12.
	fallbackPattern = regexp.MustCompile(`(\d+)\.(\d+)[A-Z]*(\d+)`)
)

// ExtractDimensions parses a tire size out of free text. Patterns are tried
// from most to least specific; an unparseable description yields all-nil,
// which callers must treat as "unknown size", never as a zero size.
func ExtractDimensions(text string) Dimensions {
	if text == "" {
		return Dimensions{}
	}

	for _, p := range metricPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return Dimensions{
				Width:       atoiRef(m[1]),
				AspectRatio: atoiRef(m[2]),
				RimDiameter: atoiRef(m[3]),
			}
		}
	}

	if m := inchPattern.FindStringSubmatch(text); m != nil {
		inches, _ := strconv.Atoi(m[1])
		section, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Dimensions{}
		}
		// Approximate conversion used by the catalog: inches to mm for the
		// width, section height scaled to an aspect-ratio-like value.
		width := int(float64(inches) * 25.4)
		aspect := int(section * 3.5)
		return Dimensions{
			Width:       &width,
			AspectRatio: &aspect,
			RimDiameter: atoiRef(m[3]),
		}
	}

	if m := dashPattern.FindStringSubmatch(text); m != nil {
		return Dimensions{RimDiameter: atoiRef(m[3])}
	}

	if m := fallbackPattern.FindStringSubmatch(text); m != nil {
		return Dimensions{RimDiameter: atoiRef(m[3])}
	}

	return Dimensions{}
}

func atoiRef(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
