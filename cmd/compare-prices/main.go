// compare-prices reports price differences between a vendor spreadsheet and
// the catalog. Read-only: use update-stock-prices to apply fixes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gomeria/catalog-tools/config"
	"github.com/gomeria/catalog-tools/models"
	"github.com/gomeria/catalog-tools/reconcile"
	"github.com/gomeria/catalog-tools/sheet"
)

func main() {
	file := flag.String("file", "", "Required: path to the vendor price spreadsheet (.xlsx)")
	headerRow := flag.Int("header-row", -1, "0-based header row; -1 to detect automatically")
	tolerance := flag.Float64("tolerance", 0.01, "Price comparison tolerance (deltas at or above it are mismatches)")
	top := flag.Int("top", reconcile.DefaultExampleLimit, "How many example mismatches to print")
	jsonOut := flag.String("json-out", "", "Optional: write the run summary to this JSON file")
	flag.Parse()

	if strings.TrimSpace(*file) == "" {
		fmt.Fprintln(os.Stderr, "--file is required")
		os.Exit(1)
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
	if !src.HasPrices {
		fmt.Fprintln(os.Stderr, "spreadsheet has no price columns (PUBLICO/CONTADO/PRECIO)")
		os.Exit(1)
	}
	fmt.Printf("read %s: header at row %d, %d data rows\n", *file, src.HeaderRow, len(src.Records()))

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

	opts := reconcile.Options{
		Tolerance:     decimal.NewFromFloat(*tolerance),
		ComparePrices: true,
	}

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
