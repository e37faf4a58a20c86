package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gomeria/catalog-tools/normalize"
	"github.com/gomeria/catalog-tools/sheet"
)

// defaultDiscount is the vendor's standard cash discount: list prices are
// struck through and the net price is 25% below. Used to reconstruct
// whichever of the two prices a sheet omits.
var defaultDiscount = decimal.NewFromFloat(0.75)

const defaultBrand = "PIRELLI"

// ProductFromRecord assembles a catalog row from one spreadsheet row,
// running the full normalization pipeline. Returns nil when the row has no
// description or no usable price.
func ProductFromRecord(rec sheet.Record) *Product {
	if rec.Description == "" {
		return nil
	}

	description := normalize.ExpandAbbreviations(normalize.CleanDescription(rec.Description))
	dims := normalize.ExtractDimensions(description)
	category := normalize.MapVendorCategory(rec.Category, description, dims.Width)

	listPrice, netPrice := resolvePrices(rec.ListPrice, rec.NetPrice)
	if netPrice == nil {
		return nil
	}

	name := description
	if dims.Complete() {
		name = formatSize(dims) + " " + description
	}

	brand := rec.Brand
	if brand == "" {
		brand = defaultBrand
	}

	discount := 0
	if listPrice != nil && listPrice.GreaterThan(*netPrice) {
		discount = 25
	}

	imageURL := normalize.PlaceholderImageURL
	if file, ok := normalize.ImageForModel(description); ok {
		imageURL = "/" + file
	}

	sku := normalize.CleanCode(rec.Code)

	return &Product{
		Sku:         sku,
		Name:        truncate(name, 200),
		Brand:       brand,
		Model:       truncate(description, 100),
		Description: description,
		Category:    category,
		Width:       dims.Width,
		Profile:     dims.AspectRatio,
		Diameter:    dims.RimDiameter,
		Price:       *netPrice,
		Stock:       rec.TotalStock(),
		ImageURL:    imageURL,
		Features: Features{
			CodigoPropio:       sku,
			CodigoProveedor:    rec.SupplierCode,
			Proveedor:          rec.Supplier,
			PriceList:          listPrice,
			StockByBranch:      rec.BranchStock,
			DiscountPercentage: discount,
		},
	}
}

// resolvePrices fills in whichever price the sheet omits using the standard
// discount, returning (list, net). Both nil means the row is unpriced.
func resolvePrices(list, net *decimal.Decimal) (*decimal.Decimal, *decimal.Decimal) {
	switch {
	case list != nil && net != nil:
		return list, net
	case list != nil:
		n := list.Mul(defaultDiscount)
		return list, &n
	case net != nil:
		l := net.Div(defaultDiscount)
		return &l, net
	default:
		return nil, nil
	}
}

func formatSize(d normalize.Dimensions) string {
	return fmt.Sprintf("%d/%dR%d", *d.Width, *d.AspectRatio, *d.RimDiameter)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
