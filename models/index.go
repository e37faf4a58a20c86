package models

import (
	"context"
	"errors"

	"github.com/gomeria/catalog-tools/config"
	"github.com/gomeria/catalog-tools/normalize"
)

// CatalogIndex maps cleaned vendor codes to catalog rows for O(1) lookup
// during reconciliation. It is read-only for the duration of a run.
type CatalogIndex struct {
	byCode map[string]*Product

	// Skipped counts rows without any vendor code. Such rows cannot be
	// reached by reconciliation at all, so the count is surfaced in every
	// report instead of being silently dropped.
	Skipped int
}

// LoadCatalogIndex fetches every catalog row in one bulk read and indexes it
// by its vendor code. Rows whose code is empty are excluded and tallied.
func LoadCatalogIndex(ctx context.Context) (*CatalogIndex, error) {
	db := config.GetDB()
	if db == nil {
		return nil, errors.New("database not initialized")
	}

	var products []*Product
	if err := db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, err
	}
	return BuildCatalogIndex(products), nil
}

// BuildCatalogIndex indexes an already-loaded product slice. Split out from
// LoadCatalogIndex so the exclusion rule is testable without a database.
func BuildCatalogIndex(products []*Product) *CatalogIndex {
	ix := &CatalogIndex{byCode: make(map[string]*Product, len(products))}
	for _, p := range products {
		code := p.VendorCode()
		if code == "" {
			ix.Skipped++
			continue
		}
		ix.byCode[code] = p
	}
	return ix
}

// Lookup resolves a raw vendor code (brackets tolerated) to a catalog row.
func (ix *CatalogIndex) Lookup(code string) (*Product, bool) {
	p, ok := ix.byCode[normalize.CleanCode(code)]
	return p, ok
}

func (ix *CatalogIndex) Len() int {
	return len(ix.byCode)
}

// Products returns the indexed rows in no particular order.
func (ix *CatalogIndex) Products() []*Product {
	out := make([]*Product, 0, len(ix.byCode))
	for _, p := range ix.byCode {
		out = append(out, p)
	}
	return out
}
