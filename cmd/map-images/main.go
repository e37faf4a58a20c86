// map-images assigns product photos: each catalog row gets the image file
// matching its model name, falling back to the placeholder. With
// --thumbnails it also renders 200px JPEG previews next to the originals.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/gomeria/catalog-tools/config"
	"github.com/gomeria/catalog-tools/models"
	"github.com/gomeria/catalog-tools/normalize"
	"github.com/gomeria/catalog-tools/utils"
)

func main() {
	imagesDir := flag.String("images-dir", "", "Required: directory holding the product photo files")
	thumbnails := flag.Bool("thumbnails", false, "Also render 200px JPEG thumbnails under <images-dir>/thumbnails")
	dryRun := flag.Bool("dry-run", true, "Report what would change without writing")
	confirm := flag.String("confirm", "", "Type FIX to proceed when dry-run=false")
	flag.Parse()

	if strings.TrimSpace(*imagesDir) == "" {
		fmt.Fprintln(os.Stderr, "--images-dir is required")
		os.Exit(1)
	}
	if info, err := os.Stat(*imagesDir); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "images directory not found: %s\n", *imagesDir)
		os.Exit(1)
	}
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
	fmt.Printf("products loaded: %d\n", len(products))

	mapped := 0
	missingFile := 0
	placeholder := 0
	writeErrors := 0

	for _, p := range products {
		file, ok := normalize.ImageForModel(p.Name + " " + p.Model)
		imageURL := normalize.PlaceholderImageURL
		if ok {
			if _, err := os.Stat(filepath.Join(*imagesDir, file)); err != nil {
				missingFile++
				config.LogError(logger, "map-images", "main", "image file missing", file, err)
			} else {
				imageURL = "/" + file
			}
		}
		if imageURL == normalize.PlaceholderImageURL {
			placeholder++
		}
		if imageURL == p.ImageURL {
			continue
		}

		if *dryRun {
			mapped++
			if mapped <= 10 {
				fmt.Printf("  [%s] %-40s -> %s\n", p.VendorCode(), utils.Truncate(p.Name, 40), imageURL)
			}
			continue
		}
		if err := models.ApplyProductChanges(ctx, p, models.ProductChanges{ImageURL: utils.NewString(imageURL)}); err != nil {
			writeErrors++
			config.LogError(logger, "map-images", "main", "apply changes", p.ID, err)
			continue
		}
		mapped++
	}

	if *thumbnails && !*dryRun {
		made, failed := renderThumbnails(logger, *imagesDir)
		fmt.Printf("thumbnails rendered: %d (failed: %d)\n", made, failed)
	}

	if *dryRun {
		fmt.Printf("dry run: %d image assignments would change (%d products on placeholder, %d mapped files missing)\n",
			mapped, placeholder, missingFile)
		return
	}
	fmt.Printf("image assignments updated: %d (placeholder: %d, missing files: %d, write errors: %d)\n",
		mapped, placeholder, missingFile, writeErrors)
}

// renderThumbnails writes a 200px-wide JPEG for every mapped photo file.
func renderThumbnails(logger *logrus.Logger, dir string) (made, failed int) {
	thumbDir := filepath.Join(dir, "thumbnails")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		config.LogError(logger, "map-images", "renderThumbnails", "create thumbnails dir", thumbDir, err)
		return 0, 0
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		config.LogError(logger, "map-images", "renderThumbnails", "read images dir", dir, err)
		return 0, 0
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			continue
		}
		img, err := imaging.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			failed++
			config.LogError(logger, "map-images", "renderThumbnails", "decode image", entry.Name(), err)
			continue
		}
		thumb := imaging.Resize(img, 200, 0, imaging.Lanczos)
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if err := imaging.Save(thumb, filepath.Join(thumbDir, base+".jpg")); err != nil {
			failed++
			config.LogError(logger, "map-images", "renderThumbnails", "save thumbnail", entry.Name(), err)
			continue
		}
		made++
	}
	return made, failed
}
