package reconcile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultExampleLimit bounds how many concrete mismatches a report prints;
// the full counts always cover every row.
const DefaultExampleLimit = 20

// Report aggregates reconciliation outcomes for one run.
type Report struct {
	Processed       int `json:"processed"`
	Matched         int `json:"matched"`
	PriceMismatches int `json:"price_mismatches"`
	StockMismatches int `json:"stock_mismatches"`
	NotFound        int `json:"not_found"`
	SkippedNoCode   int `json:"skipped_no_code"`

	// Catalog rows unreachable by any source row because their vendor code
	// is empty.
	IndexExcluded int `json:"index_excluded"`

	ExampleLimit int      `json:"-"`
	mismatches   []Result `json:"-"`
}

func NewReport() *Report {
	return &Report{ExampleLimit: DefaultExampleLimit}
}

// Add tallies one result.
func (r *Report) Add(res Result) {
	r.Processed++
	switch {
	case res.NotFound:
		r.NotFound++
	case res.Matched():
		r.Matched++
	default:
		if res.PriceMismatch {
			r.PriceMismatches++
		}
		if res.StockMismatch {
			r.StockMismatches++
		}
		r.mismatches = append(r.mismatches, res)
	}
}

func (r *Report) Skip() {
	r.SkippedNoCode++
}

// MatchRate is the share of found rows that matched, as a percentage.
func (r *Report) MatchRate() float64 {
	found := r.Processed - r.NotFound
	if found <= 0 {
		return 0
	}
	return float64(r.Matched) / float64(found) * 100
}

// Mismatches returns every mismatched result, largest absolute delta first.
func (r *Report) Mismatches() []Result {
	out := make([]Result, len(r.mismatches))
	copy(out, r.mismatches)
	sort.SliceStable(out, func(i, j int) bool {
		return magnitude(out[i]).GreaterThan(magnitude(out[j]))
	})
	return out
}

// Examples returns the top mismatches, bounded by ExampleLimit.
func (r *Report) Examples() []Result {
	all := r.Mismatches()
	limit := r.ExampleLimit
	if limit <= 0 {
		limit = DefaultExampleLimit
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func magnitude(res Result) decimal.Decimal {
	m := res.PriceDelta.Abs()
	if v := res.PriceListDelta.Abs(); v.GreaterThan(m) {
		m = v
	}
	if v := decimal.NewFromInt(int64(abs(res.StockDelta))); v.GreaterThan(m) {
		m = v
	}
	return m
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Print writes the human-readable run summary.
func (r *Report) Print(w io.Writer) {
	line := strings.Repeat("=", 88)

	examples := r.Examples()
	if len(examples) > 0 {
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "%-10s %-38s %14s %14s %8s\n", "CODIGO", "DESCRIPCION", "DELTA PRECIO", "DELTA LISTA", "STOCK")
		fmt.Fprintln(w, strings.Repeat("-", 88))
		for _, res := range examples {
			desc := res.Source.Description
			if len(desc) > 38 {
				desc = desc[:38]
			}
			fmt.Fprintf(w, "%-10s %-38s %14s %14s %+8d\n",
				res.Code(), desc,
				res.PriceDelta.StringFixed(2), res.PriceListDelta.StringFixed(2), res.StockDelta)
		}
		if extra := r.PriceMismatches + r.StockMismatches - len(examples); extra > 0 {
			fmt.Fprintf(w, "... and more mismatches not shown\n")
		}
	}

	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "%-28s %d\n", "Rows processed:", r.Processed)
	fmt.Fprintf(w, "%-28s %d\n", "Matched:", r.Matched)
	fmt.Fprintf(w, "%-28s %d\n", "Price mismatches:", r.PriceMismatches)
	fmt.Fprintf(w, "%-28s %d\n", "Stock mismatches:", r.StockMismatches)
	fmt.Fprintf(w, "%-28s %d\n", "Not found in catalog:", r.NotFound)
	fmt.Fprintf(w, "%-28s %d\n", "Rows without code:", r.SkippedNoCode)
	fmt.Fprintf(w, "%-28s %d\n", "Catalog rows not indexable:", r.IndexExcluded)
	fmt.Fprintf(w, "%-28s %.2f%%\n", "Match rate:", r.MatchRate())
	fmt.Fprintln(w, line)
}

type reportArtifact struct {
	Report   *Report           `json:"summary"`
	Examples []exampleArtifact `json:"examples"`
}

type exampleArtifact struct {
	Code           string          `json:"codigo"`
	Description    string          `json:"descripcion"`
	PriceDelta     decimal.Decimal `json:"price_delta"`
	PriceListDelta decimal.Decimal `json:"price_list_delta"`
	StockDelta     int             `json:"stock_delta"`
	BranchDeltas   map[string]int  `json:"branch_deltas,omitempty"`
}

// WriteJSON saves the run summary and examples as a JSON artifact for later
// review.
func (r *Report) WriteJSON(path string) error {
	artifact := reportArtifact{Report: r}
	for _, res := range r.Examples() {
		artifact.Examples = append(artifact.Examples, exampleArtifact{
			Code:           res.Code(),
			Description:    res.Source.Description,
			PriceDelta:     res.PriceDelta,
			PriceListDelta: res.PriceListDelta,
			StockDelta:     res.StockDelta,
			BranchDeltas:   res.BranchDeltas,
		})
	}
	b, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// WriteSQL saves one UPDATE statement per mismatch so a run can be reviewed
// and replayed by hand against the store.
func (r *Report) WriteSQL(path string, policy StockPolicy) error {
	var b strings.Builder
	b.WriteString("-- generated catalog updates; review before executing\n")
	for _, res := range r.Mismatches() {
		changes := ChangesFor(res, Options{ComparePrices: true, CompareStock: true}, policy)
		if changes.Empty() || res.Product == nil {
			continue
		}
		var sets []string
		if changes.Price != nil {
			sets = append(sets, fmt.Sprintf("price = %s", changes.Price.StringFixed(2)))
		}
		if changes.Stock != nil {
			sets = append(sets, fmt.Sprintf("stock = %d", *changes.Stock))
		}
		if changes.PriceList != nil || changes.StockByBranch != nil {
			features := res.Product.Features
			if changes.PriceList != nil {
				v := *changes.PriceList
				features.PriceList = &v
			}
			if changes.StockByBranch != nil {
				features.StockByBranch = changes.StockByBranch
			}
			encoded, err := json.Marshal(features)
			if err != nil {
				return err
			}
			sets = append(sets, fmt.Sprintf("features = '%s'", strings.ReplaceAll(string(encoded), "'", "''")))
		}
		b.WriteString(fmt.Sprintf("UPDATE products SET %s WHERE id = '%s';\n",
			strings.Join(sets, ", "), res.Product.ID))
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
