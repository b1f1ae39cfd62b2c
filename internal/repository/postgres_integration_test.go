//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marketplace-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := models.AllModels()
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := db.AutoMigrate(cleanupModels...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresConcurrentStockDecrement(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, repo, 5)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int64
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			affected, err := repo.DecrementStock(product.ID, 1)
			if err != nil {
				t.Errorf("decrement failed: %v", err)
				return
			}
			mu.Lock()
			granted += affected
			mu.Unlock()
		}()
	}
	wg.Wait()

	if granted != 5 {
		t.Fatalf("granted want 5 got %d", granted)
	}
	got, err := repo.GetByID(product.ID)
	if err != nil || got == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("stock want 0 got %d", got.Stock)
	}
}

func TestPostgresRevenueQueries(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	orders := NewOrderRepository(db)
	revenue := NewRevenueRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	recorded := createDeliveredOrder(t, db, 1, 120)
	missing := createDeliveredOrder(t, db, 2, 80)
	if err := revenue.Create(newRevenueRecord(recorded, now.AddDate(0, 0, -4))); err != nil {
		t.Fatalf("create record failed: %v", err)
	}
	if err := revenue.Create(newRevenueRecord(recorded, now)); err == nil {
		t.Fatalf("duplicate revenue record should violate unique index")
	}

	rows, err := orders.ListDeliveredWithoutRevenue(10)
	if err != nil {
		t.Fatalf("list delivered without revenue failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != missing.ID {
		t.Fatalf("expected order %d only, got %+v", missing.ID, rows)
	}

	due, err := revenue.ListUnbatchedBefore(now.AddDate(0, 0, -3))
	if err != nil {
		t.Fatalf("list unbatched failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("due records want 1 got %d", len(due))
	}
}
