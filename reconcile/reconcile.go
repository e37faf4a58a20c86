// Package reconcile compares vendor spreadsheet rows against the hosted
// catalog and classifies each pairing. Comparison is pure: a separate writer
// applies approved fixes row by row.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/gomeria/catalog-tools/models"
	"github.com/gomeria/catalog-tools/normalize"
	"github.com/gomeria/catalog-tools/sheet"
)

// DefaultTolerance absorbs rounding noise in monetary comparisons. It is a
// float-noise epsilon, not a business rule. A delta whose magnitude equals
// the tolerance counts as a mismatch: prices match only when
// |delta| < tolerance, mirroring how the catalog has always been verified.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// StockPolicy resolves the catalog's total-vs-branch-sum ambiguity when
// writing fixes. The source data violates the invariant in places and
// neither side is authoritative, so the choice is explicit per run.
type StockPolicy string

const (
	// StockPolicyBranches recomputes the stored total from the source's
	// branch quantities. Default.
	StockPolicyBranches StockPolicy = "branches"
	// StockPolicyTotal preserves the catalog's total column and only
	// replaces the per-branch map.
	StockPolicyTotal StockPolicy = "total"
)

// Options controls which field families a run compares.
type Options struct {
	Tolerance     decimal.Decimal
	ComparePrices bool
	CompareStock  bool
}

// DefaultOptions compares everything the source provides.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance, ComparePrices: true, CompareStock: true}
}

// Result classifies one source row against the catalog. A row can be both a
// price and a stock mismatch; NotFound excludes the other classifications.
type Result struct {
	Source  sheet.Record
	Product *models.Product // nil when NotFound

	NotFound      bool
	PriceMismatch bool
	StockMismatch bool

	// Signed deltas, source minus catalog. Valid only when the matching
	// mismatch flag is set.
	PriceDelta     decimal.Decimal
	PriceListDelta decimal.Decimal
	StockDelta     int
	BranchDeltas   map[string]int // non-zero entries only
}

// Matched reports full agreement within tolerance.
func (r Result) Matched() bool {
	return !r.NotFound && !r.PriceMismatch && !r.StockMismatch
}

// Code returns the cleaned join key of the source row.
func (r Result) Code() string {
	return normalize.CleanCode(r.Source.Code)
}

// Reconcile classifies one source record against the catalog index.
// Deterministic and side-effect free.
func Reconcile(rec sheet.Record, ix *models.CatalogIndex, opts Options) Result {
	res := Result{Source: rec}

	product, ok := ix.Lookup(rec.Code)
	if !ok {
		res.NotFound = true
		return res
	}
	res.Product = product

	tolerance := opts.Tolerance
	if tolerance.IsZero() {
		tolerance = DefaultTolerance
	}

	if opts.ComparePrices {
		if rec.NetPrice != nil {
			delta := rec.NetPrice.Sub(product.Price)
			if delta.Abs().GreaterThanOrEqual(tolerance) {
				res.PriceMismatch = true
				res.PriceDelta = delta
			}
		}
		if rec.ListPrice != nil {
			delta := rec.ListPrice.Sub(product.PriceList())
			if delta.Abs().GreaterThanOrEqual(tolerance) {
				res.PriceMismatch = true
				res.PriceListDelta = delta
			}
		}
	}

	if opts.CompareStock && rec.BranchStock != nil {
		// Stock is discrete: any non-zero delta is a mismatch.
		res.StockDelta = rec.TotalStock() - product.Stock
		res.BranchDeltas = branchDeltas(rec.BranchStock, product.BranchStock())
		if res.StockDelta != 0 || len(res.BranchDeltas) > 0 {
			res.StockMismatch = true
		}
	}

	return res
}

func branchDeltas(source, catalog map[string]int) map[string]int {
	deltas := map[string]int{}
	for branch, qty := range source {
		if d := qty - catalog[branch]; d != 0 {
			deltas[branch] = d
		}
	}
	for branch, qty := range catalog {
		if _, seen := source[branch]; !seen && qty != 0 {
			deltas[branch] = -qty
		}
	}
	return deltas
}

// ChangesFor converts a mismatch into the absolute-value update that would
// align the catalog with the source, honoring the stock policy.
func ChangesFor(res Result, opts Options, policy StockPolicy) models.ProductChanges {
	var changes models.ProductChanges
	if res.NotFound || res.Product == nil {
		return changes
	}

	if opts.ComparePrices && res.PriceMismatch {
		if res.Source.NetPrice != nil && !res.PriceDelta.IsZero() {
			v := *res.Source.NetPrice
			changes.Price = &v
		}
		if res.Source.ListPrice != nil && !res.PriceListDelta.IsZero() {
			v := *res.Source.ListPrice
			changes.PriceList = &v
		}
	}

	if opts.CompareStock && res.StockMismatch {
		changes.StockByBranch = res.Source.BranchStock
		if policy != StockPolicyTotal {
			total := res.Source.TotalStock()
			changes.Stock = &total
		}
	}

	return changes
}
