package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/marketplace-next/internal/broker"
	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/queue"
	"github.com/marketplace-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeTaskQueue struct {
	mu      sync.Mutex
	revenue []queue.OrderRevenueRecognizePayload
	expire  []queue.OrderExpireCancelPayload
}

func (q *fakeTaskQueue) EnqueueOrderRevenueRecognize(payload queue.OrderRevenueRecognizePayload, _ ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.revenue = append(q.revenue, payload)
	return nil
}

func (q *fakeTaskQueue) EnqueueOrderExpireCancel(payload queue.OrderExpireCancelPayload, _ time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expire = append(q.expire, payload)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []broker.Event
}

func (p *fakePublisher) Publish(_ context.Context, event broker.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.EventType)
	}
	return out
}

type orderTestEnv struct {
	db          *gorm.DB
	orders      *OrderService
	promotions  *PromotionService
	revenue     *RevenueService
	carts       *CartService
	promoRepo   repository.PromotionRepository
	revenueRepo repository.RevenueRepository
	queue       *fakeTaskQueue
	publisher   *fakePublisher

	shop     models.Shop
	shipping models.ShippingMethod
	address  models.Address
	payment  models.PaymentMethod
}

const testCustomerID uint = 7

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func newOrderTestEnv(t *testing.T, name string) *orderTestEnv {
	t.Helper()
	db := openTestDB(t, name)

	env := &orderTestEnv{
		db:          db,
		promoRepo:   repository.NewPromotionRepository(db),
		revenueRepo: repository.NewRevenueRepository(db),
		queue:       &fakeTaskQueue{},
		publisher:   &fakePublisher{},
	}
	env.shop = models.Shop{Name: "north shop"}
	env.shipping = models.ShippingMethod{Name: "courier", Cost: models.NewMoneyFromInt(20000)}
	env.address = models.Address{UserID: testCustomerID, Recipient: "buyer", Line1: "1 main st"}
	env.payment = models.PaymentMethod{Name: "transfer"}
	for _, row := range []interface{}{&env.shop, &env.shipping, &env.address, &env.payment} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed checkout data failed: %v", err)
		}
	}

	env.wire(env.revenueRepo)
	return env
}

// wire 以给定的收入仓库组装服务，便于注入故障
func (env *orderTestEnv) wire(revenueRepo repository.RevenueRepository) {
	db := env.db
	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewProductVariantRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)

	env.promotions = NewPromotionService(env.promoRepo, repository.NewPromotionUsageRepository(db))
	env.revenue = NewRevenueService(orderRepo, revenueRepo, repository.NewPaymentBatchRepository(db), env.publisher, RevenueOptions{
		CommissionRate:  decimal.NewFromFloat(0.1),
		BatchCutoffDays: 3,
	})
	env.carts = NewCartService(cartRepo, productRepo, variantRepo)
	env.orders = NewOrderService(
		orderRepo,
		productRepo,
		variantRepo,
		repository.NewCheckoutRepository(db),
		cartRepo,
		env.promotions,
		NewInventoryService(productRepo, variantRepo),
		env.revenue,
		env.queue,
		env.publisher,
		OrderOptions{PendingExpireMinutes: 30, MaxLinesPerOrder: 20},
	)
}

func (env *orderTestEnv) createProduct(t *testing.T, price int64, stock int) models.Product {
	t.Helper()
	product := models.Product{ShopID: env.shop.ID, Name: fmt.Sprintf("product-%d", time.Now().UnixNano()), Price: models.NewMoneyFromInt(price), Stock: stock}
	if err := env.db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (env *orderTestEnv) createVariant(t *testing.T, productID uint, price *models.Money, stock *int) models.ProductVariant {
	t.Helper()
	variant := models.ProductVariant{ProductID: productID, SKUCode: fmt.Sprintf("sku-%d", time.Now().UnixNano()), Price: price, Stock: stock}
	if err := env.db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func (env *orderTestEnv) createPromotion(t *testing.T, kind constants.PromotionKind, rule models.PromotionRule) models.PromotionRule {
	t.Helper()
	if rule.Type == "" {
		rule.Type = constants.PromotionTypeFixed
	}
	if err := env.promotions.CreatePromotion(kind, &rule); err != nil {
		t.Fatalf("create %s failed: %v", kind, err)
	}
	return rule
}

func (env *orderTestEnv) input(lines ...CartLine) CommitOrderInput {
	return CommitOrderInput{
		CustomerID: testCustomerID,
		Lines:      lines,
		AddressID:  env.address.ID,
		ShippingID: env.shipping.ID,
		PaymentID:  env.payment.ID,
	}
}

func (env *orderTestEnv) productStock(t *testing.T, id uint) int {
	t.Helper()
	var product models.Product
	if err := env.db.Unscoped().First(&product, id).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return product.Stock
}

func (env *orderTestEnv) variantStock(t *testing.T, id uint) int {
	t.Helper()
	var variant models.ProductVariant
	if err := env.db.Unscoped().First(&variant, id).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if variant.Stock == nil {
		t.Fatalf("variant %d has no stock", id)
	}
	return *variant.Stock
}

func (env *orderTestEnv) usedCount(t *testing.T, kind constants.PromotionKind, id uint) int {
	t.Helper()
	rule, err := env.promoRepo.GetByID(kind, id)
	if err != nil || rule == nil {
		t.Fatalf("reload promotion failed: %v", err)
	}
	return rule.UsedCount
}

func (env *orderTestEnv) advance(t *testing.T, orderID uint, statuses ...string) *StatusUpdateResult {
	t.Helper()
	var result *StatusUpdateResult
	for _, status := range statuses {
		var err error
		result, err = env.orders.UpdateOrderStatus(context.Background(), orderID, status)
		if err != nil {
			t.Fatalf("update status to %s failed: %v", status, err)
		}
	}
	return result
}
