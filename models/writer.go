package models

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"github.com/gomeria/catalog-tools/config"
)

// ProductChanges describes an absolute-value update to one catalog row.
// Nil fields are untouched. Because every set field overwrites rather than
// increments, applying the same changes twice leaves the row in the same
// state as applying them once.
type ProductChanges struct {
	Name        *string
	Model       *string
	Description *string
	Width       *int
	Profile     *int
	Diameter    *int
	Price       *decimal.Decimal
	PriceList   *decimal.Decimal
	Stock       *int
	// StockByBranch replaces the whole per-branch map when non-nil.
	StockByBranch map[string]int
	ImageURL      *string
}

func (c ProductChanges) Empty() bool {
	return c.Name == nil && c.Model == nil && c.Description == nil &&
		c.Width == nil && c.Profile == nil && c.Diameter == nil &&
		c.Price == nil && c.PriceList == nil && c.Stock == nil &&
		c.StockByBranch == nil && c.ImageURL == nil
}

// ApplyProductChanges writes one update for one row. No transaction spans
// records: callers update row by row and treat individual failures as
// non-fatal, logging and continuing.
func ApplyProductChanges(ctx context.Context, product *Product, changes ProductChanges) error {
	db := config.GetDB()
	if db == nil {
		return errors.New("database not initialized")
	}
	if changes.Empty() {
		return nil
	}

	updates := map[string]interface{}{}
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if changes.Model != nil {
		updates["model"] = *changes.Model
	}
	if changes.Description != nil {
		updates["description"] = *changes.Description
	}
	if changes.Width != nil {
		updates["width"] = *changes.Width
	}
	if changes.Profile != nil {
		updates["profile"] = *changes.Profile
	}
	if changes.Diameter != nil {
		updates["diameter"] = *changes.Diameter
	}
	if changes.Price != nil {
		updates["price"] = *changes.Price
	}
	if changes.Stock != nil {
		updates["stock"] = *changes.Stock
	}
	if changes.ImageURL != nil {
		updates["image_url"] = *changes.ImageURL
	}

	if changes.PriceList != nil || changes.StockByBranch != nil {
		features := product.Features
		if changes.PriceList != nil {
			v := *changes.PriceList
			features.PriceList = &v
		}
		if changes.StockByBranch != nil {
			features.StockByBranch = changes.StockByBranch
		}
		updates["features"] = features
		product.Features = features
	}

	return db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", product.ID).
		Updates(updates).Error
}

// UpsertProducts inserts rows keyed by sku, overwriting the mutable fields
// of rows that already exist. This replaces the historic delete-then-reinsert
// refresh: readers never observe an empty table mid-import.
func UpsertProducts(ctx context.Context, products []*Product) error {
	db := config.GetDB()
	if db == nil {
		return errors.New("database not initialized")
	}
	if len(products) == 0 {
		return nil
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "brand", "model", "description", "category",
			"width", "profile", "diameter", "price", "stock",
			"image_url", "features", "updated_at",
		}),
	}).CreateInBatches(products, 100).Error
}

// DeleteAllProducts removes every catalog row. Retained only for the legacy
// full-replace refresh; callers must require an explicit confirmation flag
// before invoking it.
func DeleteAllProducts(ctx context.Context) (int64, error) {
	db := config.GetDB()
	if db == nil {
		return 0, errors.New("database not initialized")
	}
	res := db.WithContext(ctx).Where("1 = 1").Delete(&Product{})
	return res.RowsAffected, res.Error
}
