package service

import (
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/metrics"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/repository"

	"gorm.io/gorm"
)

// StockLine 待扣减的库存行
type StockLine struct {
	ProductID uint
	VariantID uint
	// VariantStock 为 true 时扣减规格库存，否则扣减商品库存
	VariantStock bool
	Quantity     int
}

// InventoryService 库存扣减与回补
type InventoryService struct {
	productRepo repository.ProductRepository
	variantRepo repository.ProductVariantRepository
}

// NewInventoryService 创建库存服务
func NewInventoryService(productRepo repository.ProductRepository, variantRepo repository.ProductVariantRepository) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// Reserve 在事务内按行条件扣减库存，任一行不足即返回 StockError
func (s *InventoryService) Reserve(tx *gorm.DB, lines []StockLine) error {
	productRepo := s.productRepo.WithTx(tx)
	variantRepo := s.variantRepo.WithTx(tx)
	for _, line := range lines {
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		var (
			rows int64
			err  error
		)
		if line.VariantStock {
			rows, err = variantRepo.DecrementStock(line.VariantID, line.Quantity)
		} else {
			rows, err = productRepo.DecrementStock(line.ProductID, line.Quantity)
		}
		if err != nil {
			return err
		}
		if rows == 0 {
			metrics.StockConflictsTotal.Inc()
			return s.stockError(productRepo, variantRepo, line)
		}
	}
	return nil
}

// Restore 在事务内按订单行回补库存，回补目标取下单时记录的扣减对象
func (s *InventoryService) Restore(tx *gorm.DB, lines []models.OrderLine) error {
	productRepo := s.productRepo.WithTx(tx)
	variantRepo := s.variantRepo.WithTx(tx)
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if !line.StockOnVariant || line.VariantID == nil || *line.VariantID == 0 {
			if _, err := productRepo.RestoreStock(line.ProductID, line.Quantity); err != nil {
				return err
			}
			continue
		}
		rows, err := variantRepo.RestoreStock(*line.VariantID, line.Quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			// 规格已改为不限库存，扣减的数量无处回补
			logger.Warnw("inventory_restore_variant_untracked",
				"order_id", line.OrderID,
				"variant_id", *line.VariantID,
				"quantity", line.Quantity,
			)
		}
	}
	return nil
}

func (s *InventoryService) stockError(productRepo repository.ProductRepository, variantRepo repository.ProductVariantRepository, line StockLine) error {
	stockErr := &StockError{
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Requested: line.Quantity,
	}
	if line.VariantStock {
		if variant, err := variantRepo.GetByID(line.VariantID); err == nil && variant != nil && variant.Stock != nil {
			stockErr.Available = *variant.Stock
		}
		return stockErr
	}
	if product, err := productRepo.GetByID(line.ProductID); err == nil && product != nil {
		stockErr.Available = product.Stock
	}
	return stockErr
}
