// import-price-list loads a vendor price list into the catalog. Rows are
// upserted by SKU so readers never observe an empty table; the historic
// delete-then-reinsert refresh is still available behind --replace.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gomeria/catalog-tools/config"
	"github.com/gomeria/catalog-tools/models"
	"github.com/gomeria/catalog-tools/sheet"
	"github.com/gomeria/catalog-tools/utils"
)

func main() {
	file := flag.String("file", "", "Required: path to the vendor price list (.xlsx)")
	headerRow := flag.Int("header-row", -1, "0-based header row; -1 to detect automatically")
	dryRun := flag.Bool("dry-run", true, "Parse and report without writing")
	confirm := flag.String("confirm", "", "Type IMPORT to proceed when dry-run=false (REPLACE with --replace)")
	replace := flag.Bool("replace", false, "Delete every existing product first (destructive)")
	flag.Parse()

	if strings.TrimSpace(*file) == "" {
		fmt.Fprintln(os.Stderr, "--file is required")
		os.Exit(1)
	}
	if _, err := os.Stat(*file); err != nil {
		fmt.Fprintf(os.Stderr, "file not found: %s\n", *file)
		os.Exit(1)
	}
	if !*dryRun {
		want := "IMPORT"
		if *replace {
			want = "REPLACE"
		}
		if strings.TrimSpace(*confirm) != want {
			fmt.Fprintf(os.Stderr, "set --confirm=%s to proceed\n", want)
			os.Exit(1)
		}
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
	records := src.Records()
	fmt.Printf("read %s: header at row %d, %d data rows\n", *file, src.HeaderRow, len(records))

	var products []*models.Product
	skipped := 0
	for _, rec := range records {
		p := models.ProductFromRecord(rec)
		if p == nil || p.Sku == "" {
			skipped++
			continue
		}
		products = append(products, p)
	}
	fmt.Printf("parsed %d products (%d rows skipped: no description, price or code)\n", len(products), skipped)

	for i, p := range products {
		if i >= 3 {
			break
		}
		fmt.Printf("  [%s] %-45s %-10s $%s stock=%d\n",
			p.Sku, utils.Truncate(p.Name, 45), p.Category, p.Price.StringFixed(2), p.Stock)
	}

	if *dryRun {
		fmt.Println("dry run: nothing written")
		return
	}

	if err := config.ConnectDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "database configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := logrus.New()
	ctx := context.Background()

	if err := models.MigrateTable(); err != nil {
		fmt.Fprintf(os.Stderr, "could not migrate products table: %v\n", err)
		os.Exit(1)
	}

	if *replace {
		deleted, err := models.DeleteAllProducts(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not delete existing products: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("deleted %d existing products\n", deleted)
	}

	if err := models.UpsertProducts(ctx, products); err != nil {
		config.LogError(logger, "import-price-list", "main", "upsert products", len(products), err)
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}

	total, err := models.CountProducts(ctx)
	if err == nil {
		fmt.Printf("import completed: %d products written, catalog now has %d\n", len(products), total)
	} else {
		fmt.Printf("import completed: %d products written\n", len(products))
	}
}
