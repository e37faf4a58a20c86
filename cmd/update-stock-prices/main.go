// update-stock-prices applies price and branch-stock values from a vendor
// spreadsheet to the catalog. Dry-run by default; per-row failures are
// logged and skipped, never fatal, and re-running is safe because every
// update sets absolute values.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/gomeria/catalog-tools/config"
	"github.com/gomeria/catalog-tools/models"
	"github.com/gomeria/catalog-tools/reconcile"
	"github.com/gomeria/catalog-tools/sheet"
	"github.com/gomeria/catalog-tools/utils"
)

func main() {
	file := flag.String("file", "", "Required: path to the vendor spreadsheet (.xlsx)")
	headerRow := flag.Int("header-row", -1, "0-based header row; -1 to detect automatically")
	tolerance := flag.Float64("tolerance", 0.01, "Price comparison tolerance (deltas at or above it are mismatches)")
	stockPolicy := flag.String("stock-policy", string(reconcile.StockPolicyBranches),
		"How to repair the stock total: 'branches' recomputes it from branch sums, 'total' keeps the stored total")
	dryRun := flag.Bool("dry-run", true, "Report what would change without writing")
	confirm := flag.String("confirm", "", "Type UPDATE to proceed when dry-run=false")
	jsonOut := flag.String("json-out", "", "Optional: write the run summary to this JSON file")
	sqlOut := flag.String("sql-out", "", "Optional: write the updates as SQL statements to this file")
	flag.Parse()

	if strings.TrimSpace(*file) == "" {
		fmt.Fprintln(os.Stderr, "--file is required")
		os.Exit(1)
	}
	if _, err := os.Stat(*file); err != nil {
		fmt.Fprintf(os.Stderr, "file not found: %s\n", *file)
		os.Exit(1)
	}
	policy := reconcile.StockPolicy(*stockPolicy)
	if policy != reconcile.StockPolicyBranches && policy != reconcile.StockPolicyTotal {
		fmt.Fprintf(os.Stderr, "invalid --stock-policy %q (want branches or total)\n", *stockPolicy)
		os.Exit(1)
	}
	if !*dryRun && strings.TrimSpace(*confirm) != "UPDATE" {
		fmt.Fprintln(os.Stderr, "set --confirm=UPDATE to proceed")
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
	fmt.Printf("read %s: header at row %d, %d data rows\n", *file, src.HeaderRow, len(src.Records()))
	fmt.Printf("update mode: prices=%v stock=%v policy=%s\n", src.HasPrices, src.HasStock, policy)
	if !src.HasPrices && !src.HasStock {
		fmt.Fprintln(os.Stderr, "spreadsheet has neither price nor stock columns; nothing to update")
		os.Exit(1)
	}

	if err := config.ConnectDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "database configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := logrus.New()

	ctx := context.Background()
	index, err := models.LoadCatalogIndex(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load catalog: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("catalog loaded: %d products indexed, %d without vendor code\n", index.Len(), index.Skipped)

	opts := reconcile.Options{
		Tolerance:     decimal.NewFromFloat(*tolerance),
		ComparePrices: src.HasPrices,
		CompareStock:  src.HasStock,
	}

	report := reconcile.NewReport()
	report.IndexExcluded = index.Skipped

	updated := 0
	writeErrors := 0
	shown := 0

	for _, rec := range src.Records() {
		if rec.Code == "" {
			report.Skip()
			continue
		}
		res := reconcile.Reconcile(rec, index, opts)
		report.Add(res)

		changes := reconcile.ChangesFor(res, opts, policy)
		if changes.Empty() {
			continue
		}

		if *dryRun {
			updated++
			if shown < 5 {
				printChange(res, changes)
				shown++
			}
			continue
		}

		if err := models.ApplyProductChanges(ctx, res.Product, changes); err != nil {
			writeErrors++
			config.LogError(logger, "update-stock-prices", "main", "apply changes", res.Code(), err)
			continue
		}
		updated++
		if shown < 5 {
			printChange(res, changes)
			shown++
		}
	}

	report.Print(os.Stdout)
	if *dryRun {
		fmt.Printf("dry run: %d products would be updated\n", updated)
	} else {
		fmt.Printf("products updated: %d (write errors: %d)\n", updated, writeErrors)
	}

	if *jsonOut != "" {
		if err := report.WriteJSON(*jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "could not write JSON artifact: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("summary written to %s\n", *jsonOut)
	}
	if *sqlOut != "" {
		if err := report.WriteSQL(*sqlOut, policy); err != nil {
			fmt.Fprintf(os.Stderr, "could not write SQL artifact: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("SQL statements written to %s\n", *sqlOut)
	}
}

func printChange(res reconcile.Result, changes models.ProductChanges) {
	priceInfo := "-"
	if changes.Price != nil {
		priceInfo = "$" + changes.Price.StringFixed(2)
	}
	stockInfo := "-"
	if changes.Stock != nil {
		stockInfo = fmt.Sprintf("%d", *changes.Stock)
	}
	fmt.Printf("  [%s] %-35s | price: %12s | stock: %4s\n",
		res.Code(), utils.Truncate(res.Source.Description, 35), priceInfo, stockInfo)
}
