package main

import (
	"time"

	"github.com/marketplace-next/internal/config"
	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug"); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 店铺
	shops := []models.Shop{{Name: "North Outfitters"}, {Name: "Harbor Electronics"}}
	for i := range shops {
		if err := models.DB.Where("name = ?", shops[i].Name).FirstOrCreate(&shops[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed shop %s: %v", shops[i].Name, err)
		}
		stdLog.Printf("Shop ready: %s (id=%d)", shops[i].Name, shops[i].ID)
	}

	// 分类
	categories := []models.Category{
		{Slug: "apparel", Name: "Apparel"},
		{Slug: "electronics", Name: "Electronics"},
	}
	categoryIDs := map[string]uint{}
	for i := range categories {
		if err := models.DB.Where("slug = ?", categories[i].Slug).FirstOrCreate(&categories[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed category %s: %v", categories[i].Slug, err)
		}
		categoryIDs[categories[i].Slug] = categories[i].ID
	}

	// 商品与规格
	type seedProduct struct {
		shop     int
		category string
		name     string
		price    string
		stock    int
		variants []models.ProductVariant
	}
	variantPrice := models.NewMoneyFromDecimal(decimal.RequireFromString("189.00"))
	variantStock := 12
	products := []seedProduct{
		{shop: 0, category: "apparel", name: "Trail Jacket", price: "150.00", stock: 40, variants: []models.ProductVariant{
			{SKUCode: "TJ-M", Attributes: models.StringMap{"size": "M"}, IsDefault: true},
			{SKUCode: "TJ-XL", Attributes: models.StringMap{"size": "XL"}, Price: &variantPrice, Stock: &variantStock},
		}},
		{shop: 0, category: "apparel", name: "Wool Beanie", price: "25.00", stock: 200},
		{shop: 1, category: "electronics", name: "Noise Cancelling Headphones", price: "1200.00", stock: 15},
	}
	for _, item := range products {
		product := models.Product{
			ShopID: shops[item.shop].ID,
			Name:   item.name,
			Price:  models.NewMoneyFromDecimal(decimal.RequireFromString(item.price)),
			Stock:  item.stock,
		}
		if err := models.DB.Where("shop_id = ? AND name = ?", product.ShopID, product.Name).FirstOrCreate(&product).Error; err != nil {
			stdLog.Printf("Failed to seed product %s: %v", item.name, err)
			continue
		}
		category := models.Category{ID: categoryIDs[item.category]}
		if err := models.DB.Model(&product).Association("Categories").Append(&category); err != nil {
			stdLog.Printf("Failed to link category for %s: %v", item.name, err)
		}
		for _, variant := range item.variants {
			variant.ProductID = product.ID
			if err := models.DB.Where("product_id = ? AND sku_code = ?", product.ID, variant.SKUCode).FirstOrCreate(&variant).Error; err != nil {
				stdLog.Printf("Failed to seed variant %s: %v", variant.SKUCode, err)
			}
		}
		stdLog.Printf("Product ready: %s (id=%d)", product.Name, product.ID)
	}

	// 配送、支付与示例地址
	shipping := models.ShippingMethod{Name: "Standard Courier", Cost: models.NewMoneyFromDecimal(decimal.RequireFromString("20.00"))}
	if err := models.DB.Where("name = ?", shipping.Name).FirstOrCreate(&shipping).Error; err != nil {
		stdLog.Printf("Failed to seed shipping method: %v", err)
	}
	payment := models.PaymentMethod{Name: "Bank Transfer", Provider: "manual"}
	if err := models.DB.Where("name = ?", payment.Name).FirstOrCreate(&payment).Error; err != nil {
		stdLog.Printf("Failed to seed payment method: %v", err)
	}
	address := models.Address{UserID: 1, Recipient: "Demo Buyer", Line1: "1 Market Street", City: "Springfield", Country: "US"}
	if err := models.DB.Where("user_id = ? AND line1 = ?", address.UserID, address.Line1).FirstOrCreate(&address).Error; err != nil {
		stdLog.Printf("Failed to seed address: %v", err)
	}

	// 折扣与优惠券
	now := time.Now()
	end := now.AddDate(0, 3, 0)
	discount := models.Discount{PromotionRule: models.PromotionRule{
		Code:          "WELCOME10",
		Type:          constants.PromotionTypePercentage,
		Value:         models.NewMoneyFromInt(10),
		MinOrderValue: models.NewMoneyFromInt(100),
		MaxUses:       1000,
		StartDate:     &now,
		EndDate:       &end,
		IsActive:      true,
	}}
	if err := models.DB.Where("code = ?", discount.Code).FirstOrCreate(&discount).Error; err != nil {
		stdLog.Printf("Failed to seed discount: %v", err)
	}
	coupon := models.Coupon{PromotionRule: models.PromotionRule{
		Code:           "JACKET20",
		Type:           constants.PromotionTypeFixed,
		Value:          models.NewMoneyFromInt(20),
		MaxUsesPerUser: 1,
		CategoryID:     categoryIDs["apparel"],
		StartDate:      &now,
		EndDate:        &end,
		IsActive:       true,
	}}
	if err := models.DB.Where("code = ?", coupon.Code).FirstOrCreate(&coupon).Error; err != nil {
		stdLog.Printf("Failed to seed coupon: %v", err)
	}

	stdLog.Printf("Seed completed")
}
