package models

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomeria/catalog-tools/config"
)

// These tests run against a real database and are skipped unless
// INTEGRATION_TESTS is set. They create their own rows and delete them on
// cleanup; they never touch rows they did not create.
func requireDatabase(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("set INTEGRATION_TESTS to run database tests")
	}
	require.NoError(t, config.ConnectDatabase())
	require.NoError(t, MigrateTable())
}

func testProduct(t *testing.T) *Product {
	t.Helper()
	sku := "test-" + uuid.New().String()
	p := &Product{
		Sku:      sku,
		Name:     "205/55R16 CINTURATO P7",
		Brand:    "PIRELLI",
		Category: "auto",
		Price:    decimal.NewFromInt(31034),
		Stock:    8,
		Features: Features{CodigoPropio: sku, StockByBranch: map[string]int{"salta": 8}},
	}
	t.Cleanup(func() {
		config.GetDB().Where("sku = ?", sku).Delete(&Product{})
	})
	return p
}

func TestApplyProductChanges_Idempotent(t *testing.T) {
	requireDatabase(t)
	ctx := context.Background()

	p := testProduct(t)
	require.NoError(t, config.GetDB().Create(p).Error)

	newPrice := decimal.NewFromInt(29500)
	newStock := 5
	changes := ProductChanges{
		Price:         &newPrice,
		Stock:         &newStock,
		StockByBranch: map[string]int{"salta": 3, "tucuman": 2},
	}

	require.NoError(t, ApplyProductChanges(ctx, p, changes))
	require.NoError(t, ApplyProductChanges(ctx, p, changes)) // second run is a no-op state-wise

	got, err := GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(newPrice))
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, map[string]int{"salta": 3, "tucuman": 2}, got.BranchStock())
}

func TestApplyProductChanges_EmptyIsNoop(t *testing.T) {
	requireDatabase(t)
	ctx := context.Background()

	p := testProduct(t)
	require.NoError(t, config.GetDB().Create(p).Error)
	require.NoError(t, ApplyProductChanges(ctx, p, ProductChanges{}))

	got, err := GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(p.Price))
	assert.Equal(t, 8, got.Stock)
}

func TestUpsertProducts_RefreshBySku(t *testing.T) {
	requireDatabase(t)
	ctx := context.Background()

	p := testProduct(t)
	require.NoError(t, UpsertProducts(ctx, []*Product{p}))

	// Second import with the same sku updates in place instead of duplicating.
	update := *p
	update.ID = ""
	update.Price = decimal.NewFromInt(32000)
	update.Stock = 2
	require.NoError(t, UpsertProducts(ctx, []*Product{&update}))

	var count int64
	require.NoError(t, config.GetDB().Model(&Product{}).Where("sku = ?", p.Sku).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var got Product
	require.NoError(t, config.GetDB().Where("sku = ?", p.Sku).First(&got).Error)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(32000)))
	assert.Equal(t, 2, got.Stock)
	assert.Equal(t, p.ID, got.ID) // the original row survived the refresh
	assert.Equal(t, "/mock-tire.png", got.ImageURL)
}
