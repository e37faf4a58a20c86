package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomeria/catalog-tools/normalize"
	"github.com/gomeria/catalog-tools/sheet"
)

func dec(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestProductFromRecord_FullRow(t *testing.T) {
	rec := sheet.Record{
		Row:          3,
		Code:         "[41232]",
		SupplierCode: "2358200",
		Description:  "205/55R16 CINTURATO P7 (2358200)",
		Supplier:     "PIRELLI SAICyF",
		ListPrice:    dec(45000),
		NetPrice:     dec(33750),
		BranchStock:  map[string]int{"salta": 2, "catamarca": 1},
	}

	p := ProductFromRecord(rec)
	require.NotNil(t, p)

	assert.Equal(t, "41232", p.Sku)
	assert.Equal(t, "205/55R16 CINTURATO P7", p.Description) // vendor code stripped
	assert.True(t, strings.HasPrefix(p.Name, "205/55R16 "))
	assert.Equal(t, "PIRELLI", p.Brand)
	assert.Equal(t, normalize.CategoryAuto, p.Category)

	require.NotNil(t, p.Width)
	assert.Equal(t, 205, *p.Width)
	require.NotNil(t, p.Profile)
	assert.Equal(t, 55, *p.Profile)
	require.NotNil(t, p.Diameter)
	assert.Equal(t, 16, *p.Diameter)

	assert.True(t, p.Price.Equal(decimal.NewFromInt(33750)))
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, "/cinturato-p7-4505517104514.webp", p.ImageURL)

	assert.Equal(t, "41232", p.Features.CodigoPropio)
	assert.Equal(t, "2358200", p.Features.CodigoProveedor)
	assert.Equal(t, "PIRELLI SAICyF", p.Features.Proveedor)
	require.NotNil(t, p.Features.PriceList)
	assert.True(t, p.Features.PriceList.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, 25, p.Features.DiscountPercentage)
	assert.Equal(t, map[string]int{"salta": 2, "catamarca": 1}, p.Features.StockByBranch)
}

func TestProductFromRecord_ReconstructsListFromNet(t *testing.T) {
	rec := sheet.Record{
		Code:        "387",
		Description: "175/65R14 P400 EVO",
		NetPrice:    dec(15000),
	}

	p := ProductFromRecord(rec)
	require.NotNil(t, p)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(15000)))
	require.NotNil(t, p.Features.PriceList)
	assert.True(t, p.Features.PriceList.Equal(decimal.NewFromInt(20000))) // net / 0.75
	assert.Equal(t, 25, p.Features.DiscountPercentage)
}

func TestProductFromRecord_ReconstructsNetFromList(t *testing.T) {
	rec := sheet.Record{
		Code:        "388",
		Description: "175/65R14 P400 EVO",
		ListPrice:   dec(40000),
	}

	p := ProductFromRecord(rec)
	require.NotNil(t, p)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(30000))) // list * 0.75
	require.NotNil(t, p.Features.PriceList)
	assert.True(t, p.Features.PriceList.Equal(decimal.NewFromInt(40000)))
}

func TestProductFromRecord_UnpricedRowDropped(t *testing.T) {
	rec := sheet.Record{Code: "1", Description: "205/55R16 CINTURATO P7"}
	assert.Nil(t, ProductFromRecord(rec))
}

func TestProductFromRecord_DescriptionlessRowDropped(t *testing.T) {
	rec := sheet.Record{Code: "1", NetPrice: dec(1000)}
	assert.Nil(t, ProductFromRecord(rec))
}

func TestProductFromRecord_ExpandsAbbreviations(t *testing.T) {
	rec := sheet.Record{
		Code:        "500",
		Description: "185/65R15 PWRGY",
		NetPrice:    dec(20000),
	}

	p := ProductFromRecord(rec)
	require.NotNil(t, p)
	assert.Contains(t, p.Description, "POWERGY")
	assert.NotContains(t, p.Description, "PWRGY")
	assert.Equal(t, "/Powergy-4505525112389.webp", p.ImageURL)
}

func TestProductFromRecord_PlaceholderWhenNoModelMatches(t *testing.T) {
	rec := sheet.Record{
		Code:        "600",
		Description: "CAMARA 16 TR13",
		NetPrice:    dec(5000),
	}

	p := ProductFromRecord(rec)
	require.NotNil(t, p)
	assert.Equal(t, normalize.PlaceholderImageURL, p.ImageURL)
	assert.Nil(t, p.Width)
}

func TestProductFromRecord_VendorCategoryWins(t *testing.T) {
	rec := sheet.Record{
		Code:        "700",
		Description: "205/55R16 CINTURATO P7",
		Category:    "CAMIONETA",
		NetPrice:    dec(30000),
	}

	p := ProductFromRecord(rec)
	require.NotNil(t, p)
	assert.Equal(t, normalize.CategoryCamioneta, p.Category)
}

func TestBuildCatalogIndex_ExcludesCodelessRows(t *testing.T) {
	withCode := &Product{Sku: "[41232]"}
	bagOnly := &Product{Features: Features{CodigoPropio: "900"}}
	codeless := &Product{Name: "205/55R16 CINTURATO P7"}

	ix := BuildCatalogIndex([]*Product{withCode, bagOnly, codeless})
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, 1, ix.Skipped)

	p, ok := ix.Lookup("41232") // bracketed sku indexed under the cleaned key
	require.True(t, ok)
	assert.Same(t, withCode, p)

	p, ok = ix.Lookup("[900]")
	require.True(t, ok)
	assert.Same(t, bagOnly, p)

	_, ok = ix.Lookup("")
	assert.False(t, ok)
}

func TestFeatures_PriceListEncodesAsNumber(t *testing.T) {
	f := Features{CodigoPropio: "41232", PriceList: dec(45000.5)}
	v, err := f.Value()
	require.NoError(t, err)
	encoded, ok := v.(string)
	require.True(t, ok)
	assert.Contains(t, encoded, `"price_list":45000.5`)

	var decoded Features
	require.NoError(t, decoded.Scan([]byte(encoded)))
	require.NotNil(t, decoded.PriceList)
	assert.True(t, decoded.PriceList.Equal(*f.PriceList))
}
