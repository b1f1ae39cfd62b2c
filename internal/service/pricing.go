package service

import "github.com/marketplace-next/internal/models"

// ResolveLinePrice 计算行单价与小计
// 优先级：商品价 → 规格价（已设置时）→ 调用方改价
func ResolveLinePrice(product *models.Product, variant *models.ProductVariant, override *models.Money, qty int) (models.Money, models.Money, error) {
	if qty < 1 {
		return models.Money{}, models.Money{}, ErrInvalidQuantity
	}
	if product == nil {
		return models.Money{}, models.Money{}, ErrProductNotFound
	}
	if variant != nil && variant.ProductID != product.ID {
		return models.Money{}, models.Money{}, ErrVariantMismatch
	}

	unit := product.Price
	if variant != nil && variant.Price != nil {
		unit = *variant.Price
	}
	if override != nil {
		unit = *override
	}
	if unit.Decimal.IsNegative() {
		return models.Money{}, models.Money{}, ErrInvalidPrice
	}
	unit = models.NewMoneyFromDecimal(unit.Decimal)
	return unit, unit.MulQty(qty), nil
}

// GoverningStock 返回决定可售数量的库存：引用规格且规格设置了库存时以规格为准
func GoverningStock(product *models.Product, variant *models.ProductVariant) int {
	if variant != nil && variant.Stock != nil {
		return *variant.Stock
	}
	if product == nil {
		return 0
	}
	return product.Stock
}

// CheckAvailability 校验库存是否满足购买数量
func CheckAvailability(product *models.Product, variant *models.ProductVariant, qty int) error {
	available := GoverningStock(product, variant)
	if qty <= available {
		return nil
	}
	stockErr := &StockError{Requested: qty, Available: available}
	if product != nil {
		stockErr.ProductID = product.ID
	}
	if variant != nil {
		stockErr.VariantID = variant.ID
	}
	return stockErr
}

// usesVariantStock 扣减库存时是否落在规格上
func usesVariantStock(variant *models.ProductVariant) bool {
	return variant != nil && variant.Stock != nil
}
