package reconcile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomeria/catalog-tools/models"
	"github.com/gomeria/catalog-tools/sheet"
)

func mismatchResult(code string, priceDelta float64, stockDelta int) Result {
	return Result{
		Source:        sheet.Record{Code: code, Description: "205/55R16 CINTURATO P7"},
		Product:       &models.Product{ID: "id-" + code, Sku: code},
		PriceMismatch: priceDelta != 0,
		StockMismatch: stockDelta != 0,
		PriceDelta:    decimal.NewFromFloat(priceDelta),
		StockDelta:    stockDelta,
	}
}

func TestReport_Counts(t *testing.T) {
	r := NewReport()
	r.Add(Result{Source: sheet.Record{Code: "1"}, Product: &models.Product{}})
	r.Add(Result{Source: sheet.Record{Code: "2"}, NotFound: true})
	r.Add(mismatchResult("3", 500, 0))
	r.Add(mismatchResult("4", 250, -3))
	r.Skip()

	assert.Equal(t, 4, r.Processed)
	assert.Equal(t, 1, r.Matched)
	assert.Equal(t, 2, r.PriceMismatches)
	assert.Equal(t, 1, r.StockMismatches)
	assert.Equal(t, 1, r.NotFound)
	assert.Equal(t, 1, r.SkippedNoCode)
}

func TestReport_MatchRate(t *testing.T) {
	r := NewReport()
	assert.Equal(t, 0.0, r.MatchRate()) // no rows yet

	r.Add(Result{Source: sheet.Record{Code: "1"}, Product: &models.Product{}})
	r.Add(Result{NotFound: true})
	r.Add(mismatchResult("3", 500, 0))

	// Not-found rows are outside the denominator: 1 of 2 found rows matched.
	assert.InDelta(t, 50.0, r.MatchRate(), 0.001)
}

func TestReport_MismatchesOrderedByMagnitude(t *testing.T) {
	r := NewReport()
	r.Add(mismatchResult("small", 10, 0))
	r.Add(mismatchResult("large", -900, 0))
	r.Add(mismatchResult("stock", 0, 50))
	r.Add(mismatchResult("medium", 120, 2))

	var codes []string
	for _, res := range r.Mismatches() {
		codes = append(codes, res.Code())
	}
	assert.Equal(t, []string{"large", "medium", "stock", "small"}, codes)
}

func TestReport_ExamplesBounded(t *testing.T) {
	r := NewReport()
	r.ExampleLimit = 2
	for i := 0; i < 5; i++ {
		r.Add(mismatchResult("c", float64(100+i), 0))
	}

	examples := r.Examples()
	require.Len(t, examples, 2)
	assert.True(t, examples[0].PriceDelta.Equal(decimal.NewFromInt(104)))
}

func TestReport_Print(t *testing.T) {
	r := NewReport()
	r.Add(mismatchResult("41232", -500, -8))
	r.Add(Result{NotFound: true})

	var buf bytes.Buffer
	r.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "41232")
	assert.Contains(t, out, "Rows processed:")
	assert.Contains(t, out, "Not found in catalog:")
	assert.Contains(t, out, "Match rate:")
}

func TestReport_WriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := NewReport()
	r.Add(mismatchResult("41232", -500, -8))
	require.NoError(t, r.WriteJSON(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var artifact struct {
		Summary struct {
			Processed       int `json:"processed"`
			PriceMismatches int `json:"price_mismatches"`
		} `json:"summary"`
		Examples []struct {
			Code       string  `json:"codigo"`
			StockDelta int     `json:"stock_delta"`
			PriceDelta float64 `json:"price_delta"`
		} `json:"examples"`
	}
	require.NoError(t, json.Unmarshal(raw, &artifact))
	assert.Equal(t, 1, artifact.Summary.Processed)
	assert.Equal(t, 1, artifact.Summary.PriceMismatches)
	require.Len(t, artifact.Examples, 1)
	assert.Equal(t, "41232", artifact.Examples[0].Code)
	assert.Equal(t, -8, artifact.Examples[0].StockDelta)
	assert.InDelta(t, -500, artifact.Examples[0].PriceDelta, 0.001)
}

func TestReport_WriteSQL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixes.sql")

	res := Result{
		Source: sheet.Record{
			Code:        "41232",
			NetPrice:    priceRef(30500),
			BranchStock: map[string]int{"salta": 2},
		},
		Product:       &models.Product{ID: "prod-1", Sku: "41232"},
		PriceMismatch: true,
		StockMismatch: true,
		PriceDelta:    decimal.NewFromInt(-534),
		StockDelta:    2,
	}
	r := NewReport()
	r.Add(res)
	require.NoError(t, r.WriteSQL(path, StockPolicyBranches))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, "UPDATE products SET")
	assert.Contains(t, out, "price = 30500.00")
	assert.Contains(t, out, "stock = 2")
	assert.Contains(t, out, `"stock_por_sucursal":{"salta":2}`)
	assert.Contains(t, out, "WHERE id = 'prod-1';")
	assert.Equal(t, 1, strings.Count(out, "UPDATE"))
}
