// fix-dimensions repairs catalog rows whose tire size was never parsed
// (zero or missing width/profile) and whose names carry vendor codes. It
// re-runs the normalizer over the stored text and rewrites name, model,
// description and dimensions with absolute values.
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
	if err := db.WithContext(ctx).
		Where("width = 0 OR profile = 0 OR width IS NULL OR profile IS NULL").
		Find(&products).Error; err != nil {
		fmt.Fprintf(os.Stderr, "could not query products: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("products with missing dimensions: %d\n", len(products))
	if len(products) == 0 {
		return
	}

	fixed := 0
	unparsed := 0
	writeErrors := 0

	for _, p := range products {
		cleanedModel := normalize.CleanDescription(p.Model)
		cleanedDesc := normalize.CleanDescription(p.Description)

		dims := normalize.ExtractDimensions(p.Name)
		if dims.Empty() {
			dims = normalize.ExtractDimensions(p.Model)
		}
		if dims.Empty() {
			dims = normalize.ExtractDimensions(p.Description)
		}

		changes := models.ProductChanges{}
		newName := p.Name
		if dims.Complete() {
			newName = fmt.Sprintf("%d/%dR%d %s", *dims.Width, *dims.AspectRatio, *dims.RimDiameter, cleanedModel)
			changes.Width = dims.Width
			changes.Profile = dims.AspectRatio
			changes.Diameter = dims.RimDiameter
		} else {
			unparsed++
			// No size recoverable: fall back to the cleaned model so the
			// storefront at least shows a sane name instead of "0/0R".
			if looksBroken(p.Name) && cleanedModel != "" {
				newName = cleanedModel
			}
			if dims.RimDiameter != nil {
				changes.Diameter = dims.RimDiameter
			}
		}

		if newName != p.Name {
			changes.Name = utils.NewString(utils.Truncate(newName, 200))
		}
		if cleanedModel != "" && cleanedModel != p.Model {
			changes.Model = utils.NewString(utils.Truncate(cleanedModel, 100))
		}
		if cleanedDesc != "" && cleanedDesc != p.Description {
			changes.Description = utils.NewString(cleanedDesc)
		}
		if changes.Empty() {
			continue
		}

		if *dryRun {
			fixed++
			if fixed <= 10 {
				fmt.Printf("  [%s] %s -> %s\n", p.VendorCode(), utils.Truncate(p.Name, 35), utils.Truncate(newName, 35))
			}
			continue
		}
		if err := models.ApplyProductChanges(ctx, p, changes); err != nil {
			writeErrors++
			config.LogError(logger, "fix-dimensions", "main", "apply changes", p.ID, err)
			continue
		}
		fixed++
	}

	if *dryRun {
		fmt.Printf("dry run: %d products would be fixed (%d had no recoverable size)\n", fixed, unparsed)
		return
	}
	fmt.Printf("products fixed: %d (no recoverable size: %d, write errors: %d)\n", fixed, unparsed, writeErrors)
}

// looksBroken reports names produced by earlier imports that parsed nothing,
// like "0/0R16 ..." or a bare "/R".
func looksBroken(name string) bool {
	return strings.Contains(name, "0/0") || strings.HasPrefix(name, "/R") || len(name) < 5
}
