package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gomeria/catalog-tools/config"
	"github.com/gomeria/catalog-tools/normalize"
)

func init() {
	// The features bag stores price_list as a plain JSON number; quoted
	// decimals would break readers of the historic rows.
	decimal.MarshalJSONWithoutQuotes = true
}

// Features is the open-ended attribute bag on products. price_list and
// stock_por_sucursal live here in the observed schema rather than as
// first-class columns; the struct gives them types without changing the
// stored shape. The vendor code also historically lived only here, which is
// why the index still falls back to it (see LoadCatalogIndex).
type Features struct {
	CodigoPropio       string           `json:"codigo_propio,omitempty"`
	CodigoProveedor    string           `json:"codigo_proveedor,omitempty"`
	Proveedor          string           `json:"proveedor,omitempty"`
	PriceList          *decimal.Decimal `json:"price_list,omitempty"`
	StockByBranch      map[string]int   `json:"stock_por_sucursal,omitempty"`
	DiscountPercentage int              `json:"discount_percentage,omitempty"`
}

func (f Features) Value() (driver.Value, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (f *Features) Scan(value interface{}) error {
	if value == nil {
		*f = Features{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported features column type %T", value)
	}
}

// Product is one catalog row. Sku is the promoted copy of the bag's
// codigo_propio and is the reconciliation join key.
type Product struct {
	ID          string             `gorm:"type:uuid;primary_key" json:"id"`
	Sku         string             `gorm:"uniqueIndex;size:100" json:"sku"`
	Name        string             `gorm:"size:200;not null" json:"name"`
	Brand       string             `gorm:"size:100" json:"brand"`
	Model       string             `gorm:"size:100" json:"model"`
	Description string             `gorm:"type:text" json:"description"`
	Category    normalize.Category `gorm:"size:20;not null;default:'auto'" json:"category"`
	Width       *int               `json:"width"`
	Profile     *int               `json:"profile"`
	Diameter    *int               `json:"diameter"`
	Price       decimal.Decimal    `gorm:"type:decimal(20,2);default:0" json:"price"`
	Stock       int                `gorm:"not null;default:0" json:"stock"`
	ImageURL    string             `gorm:"column:image_url;size:500" json:"image_url"`
	Features    Features           `gorm:"type:jsonb" json:"features"`
	CreatedAt   time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.ImageURL == "" {
		p.ImageURL = normalize.PlaceholderImageURL
	}
	return nil
}

// VendorCode returns the cleaned join key, preferring the promoted column
// over the bag.
func (p *Product) VendorCode() string {
	if code := normalize.CleanCode(p.Sku); code != "" {
		return code
	}
	return normalize.CleanCode(p.Features.CodigoPropio)
}

// PriceList returns the struck-through reference price from the bag, or
// zero when the product never had one.
func (p *Product) PriceList() decimal.Decimal {
	if p.Features.PriceList == nil {
		return decimal.Zero
	}
	return *p.Features.PriceList
}

// BranchStock returns the per-branch quantities from the bag, never nil.
func (p *Product) BranchStock() map[string]int {
	if p.Features.StockByBranch == nil {
		return map[string]int{}
	}
	return p.Features.StockByBranch
}

// MigrateTable creates or updates the products table.
func MigrateTable() error {
	db := config.GetDB()
	if db == nil {
		return errors.New("database not initialized")
	}
	return db.AutoMigrate(&Product{})
}

func GetProductByID(ctx context.Context, id string) (*Product, error) {
	db := config.GetDB()
	var product Product
	if err := db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func CountProducts(ctx context.Context) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&Product{}).Count(&count).Error
	return count, err
}
