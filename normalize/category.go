package normalize

import "strings"

// Category is the fixed storefront classification. Every product maps to
// exactly one of the four values.
type Category string

const (
	CategoryAuto      Category = "auto"
	CategoryCamioneta Category = "camioneta"
	CategoryCamion    Category = "camion"
	CategoryMoto      Category = "moto"
)

var motoMarkers = []string{"M/C", "TT ", "MT 60", "SUPER CITY"}
var camionMarkers = []string{"C ", "LT", "CARRIER", "CHRONO"}
var camionetaMarkers = []string{"SCORPION", "SUV", "4X4"}

// camionetaWidthThreshold: passenger sizes this wide or wider are sold as
// light-truck/SUV fitments.
const camionetaWidthThreshold = 235

// MapCategory classifies a tire from its cleaned description and parsed
// width. Rules apply in priority order: motorcycle markers beat truck
// markers beat SUV markers; anything else is a passenger tire. Never fails.
func MapCategory(description string, width *int) Category {
	desc := strings.ToUpper(description)

	for _, marker := range motoMarkers {
		if strings.Contains(desc, marker) {
			return CategoryMoto
		}
	}

	for _, marker := range camionMarkers {
		if strings.Contains(desc, marker) {
			return CategoryCamion
		}
	}
	if strings.HasSuffix(desc, "C") {
		return CategoryCamion
	}

	if width != nil && *width >= camionetaWidthThreshold {
		return CategoryCamioneta
	}
	for _, marker := range camionetaMarkers {
		if strings.Contains(desc, marker) {
			return CategoryCamioneta
		}
	}

	return CategoryAuto
}

// MapVendorCategory resolves the category from the vendor's own CATEGORIA
// column when it is decisive, falling back to the description heuristics for
// ambiguous values (the vendor lumps passenger and van tires under CON/CAR).
func MapVendorCategory(raw string, description string, width *int) Category {
	vendor := strings.ToUpper(strings.TrimSpace(raw))

	switch {
	case strings.Contains(vendor, "SUV") || strings.Contains(vendor, "CAMIONETA"):
		return CategoryCamioneta
	case strings.Contains(vendor, "CAMION"):
		return CategoryCamion
	case strings.Contains(vendor, "MOTO"):
		return CategoryMoto
	}
	return MapCategory(description, width)
}
