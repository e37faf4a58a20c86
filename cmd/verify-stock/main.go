// verify-stock checks branch stock agreement between a vendor spreadsheet
// and the catalog, and audits the catalog's own total-vs-branch-sum
// invariant. Read-only.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gomeria/catalog-tools/config"
	"github.com/gomeria/catalog-tools/models"
	"github.com/gomeria/catalog-tools/reconcile"
	"github.com/gomeria/catalog-tools/sheet"
	"github.com/gomeria/catalog-tools/utils"
)

func main() {
	file := flag.String("file", "", "Path to the vendor stock spreadsheet (.xlsx); omit to audit the catalog only")
	headerRow := flag.Int("header-row", -1, "0-based header row; -1 to detect automatically")
	top := flag.Int("top", reconcile.DefaultExampleLimit, "How many example mismatches to print")
	jsonOut := flag.String("json-out", "", "Optional: write the run summary to this JSON file")
	flag.Parse()

	if err := config.ConnectDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "database configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	index, err := models.LoadCatalogIndex(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load catalog: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("catalog loaded: %d products indexed, %d without vendor code\n", index.Len(), index.Skipped)

	auditInvariant(index)

	if strings.TrimSpace(*file) == "" {
		return
	}
	if _, err := os.Stat(*file); err != nil {
		fmt.Fprintf(os.Stderr, "file not found: %s\n", *file)
		os.Exit(1)
	}

	src, err := sheet.Open(*file, *headerRow)
	if err != nil {
		if errors.Is(err, sheet.ErrMalformedSource) {
			fmt.Fprintf(os.Stderr, "spreadsheet is not usable: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "could not read spreadsheet: %v\n", err)
		}
		os.Exit(1)
	}
	if !src.HasStock {
		fmt.Fprintln(os.Stderr, "spreadsheet has no branch stock columns")
		os.Exit(1)
	}
	fmt.Printf("read %s: header at row %d, %d data rows\n", *file, src.HeaderRow, len(src.Records()))

	opts := reconcile.Options{CompareStock: true}

	report := reconcile.NewReport()
	report.ExampleLimit = *top
	report.IndexExcluded = index.Skipped

	for _, rec := range src.Records() {
		if rec.Code == "" {
			report.Skip()
			continue
		}
		report.Add(reconcile.Reconcile(rec, index, opts))
	}

	report.Print(os.Stdout)

	if *jsonOut != "" {
		if err := report.WriteJSON(*jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "could not write JSON artifact: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("summary written to %s\n", *jsonOut)
	}
}

// auditInvariant reports catalog rows whose stored total differs from the
// sum of their per-branch quantities. The data violates this in places;
// update-stock-prices --stock-policy decides which side to trust.
func auditInvariant(index *models.CatalogIndex) {
	violations := 0
	shown := 0
	for _, p := range index.Products() {
		sum := 0
		for _, qty := range p.BranchStock() {
			sum += qty
		}
		if len(p.BranchStock()) == 0 && p.Stock == 0 {
			continue
		}
		if sum != p.Stock {
			violations++
			if shown < 10 {
				fmt.Printf("  [%s] %s: stock=%d, branch sum=%d\n",
					p.VendorCode(), utils.Truncate(p.Name, 40), p.Stock, sum)
				shown++
			}
		}
	}
	if violations > 0 {
		fmt.Printf("catalog invariant violations (stock != branch sum): %d\n", violations)
	} else {
		fmt.Println("catalog invariant holds: stock equals branch sum everywhere")
	}
}
