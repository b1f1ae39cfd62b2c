package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/marketplace-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createTestProduct(t *testing.T, repo *GormProductRepository, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ShopID:   1,
		Name:     fmt.Sprintf("product-%d", time.Now().UnixNano()),
		Price:    models.NewMoneyFromInt(100),
		Stock:    stock,
		IsActive: true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestProductStockDecrementIsConditional(t *testing.T) {
	db := openRepositoryTestDB(t, "product_stock")
	repo := NewProductRepository(db)
	product := createTestProduct(t, repo, 5)

	affected, err := repo.DecrementStock(product.ID, 3)
	if err != nil || affected != 1 {
		t.Fatalf("decrement want 1 row got %d err=%v", affected, err)
	}
	affected, err = repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement over stock failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("decrement over stock affected want 0 got %d", affected)
	}
	affected, err = repo.DecrementStock(product.ID, 2)
	if err != nil || affected != 1 {
		t.Fatalf("decrement exact stock want 1 row got %d err=%v", affected, err)
	}

	got, err := repo.GetByID(product.ID)
	if err != nil || got == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("stock want 0 got %d", got.Stock)
	}

	if _, err := repo.DecrementStock(product.ID, 0); err == nil {
		t.Fatalf("zero quantity should be rejected")
	}
}

func TestProductRestoreStockIncludesSoftDeleted(t *testing.T) {
	db := openRepositoryTestDB(t, "product_restore")
	repo := NewProductRepository(db)
	product := createTestProduct(t, repo, 1)

	if err := db.Delete(&models.Product{}, product.ID).Error; err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	affected, err := repo.RestoreStock(product.ID, 4)
	if err != nil || affected != 1 {
		t.Fatalf("restore want 1 row got %d err=%v", affected, err)
	}

	var got models.Product
	if err := db.Unscoped().First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("stock want 5 got %d", got.Stock)
	}
	missing, err := repo.GetByID(product.ID)
	if err != nil || missing != nil {
		t.Fatalf("soft deleted product should read as missing, got %+v err=%v", missing, err)
	}
}

func TestVariantStockDecrementIgnoresUntrackedStock(t *testing.T) {
	db := openRepositoryTestDB(t, "variant_stock")
	products := NewProductRepository(db)
	variants := NewProductVariantRepository(db)
	product := createTestProduct(t, products, 10)

	stock := 2
	tracked := &models.ProductVariant{ProductID: product.ID, SKUCode: "TRACKED", Stock: &stock}
	untracked := &models.ProductVariant{ProductID: product.ID, SKUCode: "UNTRACKED"}
	for _, variant := range []*models.ProductVariant{tracked, untracked} {
		if err := variants.Create(variant); err != nil {
			t.Fatalf("create variant failed: %v", err)
		}
	}

	affected, err := variants.DecrementStock(tracked.ID, 2)
	if err != nil || affected != 1 {
		t.Fatalf("decrement tracked want 1 row got %d err=%v", affected, err)
	}
	affected, err = variants.DecrementStock(tracked.ID, 1)
	if err != nil || affected != 0 {
		t.Fatalf("decrement exhausted want 0 rows got %d err=%v", affected, err)
	}
	affected, err = variants.DecrementStock(untracked.ID, 1)
	if err != nil || affected != 0 {
		t.Fatalf("decrement untracked want 0 rows got %d err=%v", affected, err)
	}

	rows, err := variants.ListByIDs([]uint{tracked.ID, untracked.ID})
	if err != nil || len(rows) != 2 {
		t.Fatalf("list variants failed: len=%d err=%v", len(rows), err)
	}
}
