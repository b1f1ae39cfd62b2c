package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/provider"
	"github.com/marketplace-next/internal/repository"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testBuyerID uint = 7

type publicOrderFixture struct {
	db       *gorm.DB
	product  models.Product
	address  models.Address
	shipping models.ShippingMethod
	payment  models.PaymentMethod
}

func setupPublicOrderTest(t *testing.T) (*gin.Engine, *publicOrderFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_order_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	fx := &publicOrderFixture{db: db}
	shop := models.Shop{Name: "north shop"}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("create shop failed: %v", err)
	}
	fx.product = models.Product{ShopID: shop.ID, Name: "jacket", Price: models.NewMoneyFromInt(100000), Stock: 5}
	fx.address = models.Address{UserID: testBuyerID, Recipient: "buyer", Line1: "1 main st"}
	fx.shipping = models.ShippingMethod{Name: "courier", Cost: models.NewMoneyFromInt(2)}
	fx.payment = models.PaymentMethod{Name: "transfer"}
	for _, row := range []interface{}{&fx.product, &fx.address, &fx.shipping, &fx.payment} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed data failed: %v", err)
		}
	}

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewProductVariantRepository(db)
	promotionService := service.NewPromotionService(repository.NewPromotionRepository(db), repository.NewPromotionUsageRepository(db))
	revenueService := service.NewRevenueService(orderRepo, repository.NewRevenueRepository(db), repository.NewPaymentBatchRepository(db), nil, service.RevenueOptions{
		CommissionRate: decimal.NewFromFloat(0.1),
	})
	orderService := service.NewOrderService(
		orderRepo,
		productRepo,
		variantRepo,
		repository.NewCheckoutRepository(db),
		repository.NewCartRepository(db),
		promotionService,
		service.NewInventoryService(productRepo, variantRepo),
		revenueService,
		nil,
		nil,
		service.OrderOptions{MaxLinesPerOrder: 20},
	)
	h := &Handler{Container: &provider.Container{OrderService: orderService}}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", testBuyerID)
		c.Next()
	})
	r.POST("/orders/preview", h.PreviewOrder)
	r.POST("/orders", h.CommitOrder)
	return r, fx
}

func postOrderJSON(t *testing.T, r *gin.Engine, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int                    `json:"status_code"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp.StatusCode, resp.Data
}

func TestBuyerOverridePriceIsIgnored(t *testing.T) {
	r, fx := setupPublicOrderTest(t)
	lines := []gin.H{{"product_id": fx.product.ID, "quantity": 2, "override_price": "0.01"}}

	code, data := postOrderJSON(t, r, "/orders/preview", gin.H{"lines": lines})
	if code != 0 {
		t.Fatalf("preview failed: code=%d", code)
	}
	if data["original_price"] != "200000.00" {
		t.Fatalf("preview must use catalog price, got %v", data["original_price"])
	}

	code, data = postOrderJSON(t, r, "/orders", gin.H{
		"lines":       lines,
		"address_id":  fx.address.ID,
		"shipping_id": fx.shipping.ID,
		"payment_id":  fx.payment.ID,
	})
	if code != 0 {
		t.Fatalf("commit failed: code=%d", code)
	}
	if data["original_price"] != "200000.00" || data["total_price"] != "200002.00" {
		t.Fatalf("commit must use catalog price, got original=%v total=%v", data["original_price"], data["total_price"])
	}
	var line models.OrderLine
	if err := fx.db.First(&line).Error; err != nil {
		t.Fatalf("load order line failed: %v", err)
	}
	if line.OverridePrice != nil || line.UnitPrice.String() != "100000.00" {
		t.Fatalf("order line must not carry a buyer override: %+v", line)
	}
}
