// fix-abbreviations expands abbreviated vendor model names (PWRGY,
// SCORPN, ...) to their full commercial names across name, model and
// description.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gomeria/catalog-tools/config"
	"github.com/gomeria/catalog-tools/models"
	"github.com/gomeria/catalog-tools/normalize"
	"github.com/gomeria/catalog-tools/utils"
)

func main() {
	dryRun := flag.Bool("dry-run", true, "Report what would change without writing")
	confirm := flag.String("confirm", "", "Type FIX to proceed when dry-run=false")
	flag.Parse()

	if !*dryRun && strings.TrimSpace(*confirm) != "FIX" {
		fmt.Fprintln(os.Stderr, "set --confirm=FIX to proceed")
		os.Exit(1)
	}

	if err := config.ConnectDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "database configuration error: %v\n", err)
		os.Exit(1)
	}
	db := config.GetDB()
	logger := logrus.New()
	ctx := context.Background()

	var products []*models.Product
	if err := db.WithContext(ctx).Find(&products).Error; err != nil {
		fmt.Fprintf(os.Stderr, "could not query products: %v\n", err)
		os.Exit(1)
	}

	fixed := 0
	writeErrors := 0

	for _, p := range products {
		if !normalize.HasAbbreviation(p.Name) &&
			!normalize.HasAbbreviation(p.Model) &&
			!normalize.HasAbbreviation(p.Description) {
			continue
		}

		changes := models.ProductChanges{}
		if expanded := normalize.ExpandAbbreviations(p.Name); expanded != p.Name {
			changes.Name = utils.NewString(utils.Truncate(expanded, 200))
		}
		if expanded := normalize.ExpandAbbreviations(p.Model); expanded != p.Model {
			changes.Model = utils.NewString(utils.Truncate(expanded, 100))
		}
		if expanded := normalize.ExpandAbbreviations(p.Description); expanded != p.Description {
			changes.Description = utils.NewString(expanded)
		}
		if changes.Empty() {
			continue
		}

		if *dryRun {
			fixed++
			if fixed <= 10 {
				fmt.Printf("  [%s] %s\n", p.VendorCode(), utils.Truncate(p.Name, 50))
			}
			continue
		}
		if err := models.ApplyProductChanges(ctx, p, changes); err != nil {
			writeErrors++
			config.LogError(logger, "fix-abbreviations", "main", "apply changes", p.ID, err)
			continue
		}
		fixed++
	}

	if *dryRun {
		fmt.Printf("dry run: %d products would be renamed\n", fixed)
		return
	}
	fmt.Printf("products renamed: %d (write errors: %d)\n", fixed, writeErrors)
}
