package service

import (
	"errors"
	"time"

	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/repository"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	ID        uint                   `json:"id"`
	ProductID uint                   `json:"product_id"`
	VariantID uint                   `json:"variant_id,omitempty"`
	Quantity  int                    `json:"quantity"`
	UnitPrice models.Money           `json:"unit_price"`
	LineTotal models.Money           `json:"line_total"`
	Stock     int                    `json:"stock"`
	Product   *models.Product        `json:"product"`
	Variant   *models.ProductVariant `json:"variant,omitempty"`
}

// AddCartItemInput 加入购物车输入
type AddCartItemInput struct {
	UserID    uint
	ProductID uint
	VariantID uint
	Quantity  int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	variantRepo repository.ProductVariantRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, variantRepo repository.ProductVariantRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// List 获取用户购物车，已下架商品自动移除
func (s *CartService) List(userID uint) ([]CartItemDetail, error) {
	if userID == 0 {
		return nil, ErrInvalidCustomer
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	details := make([]CartItemDetail, 0, len(items))
	for _, item := range items {
		product, variant, err := s.loadLine(item.ProductID, item.VariantID)
		if err != nil {
			if !isUnavailableLine(err) {
				return nil, err
			}
			if _, delErr := s.cartRepo.Delete(userID, item.ID); delErr != nil {
				logger.Warnw("cart_remove_unavailable_item_failed",
					"user_id", userID,
					"cart_item_id", item.ID,
					"error", delErr,
				)
			}
			continue
		}
		unit, total, err := ResolveLinePrice(product, variant, nil, item.Quantity)
		if err != nil {
			return nil, err
		}
		details = append(details, CartItemDetail{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: unit,
			LineTotal: total,
			Stock:     GoverningStock(product, variant),
			Product:   product,
			Variant:   variant,
		})
	}
	return details, nil
}

// Add 加入购物车，同商品同规格覆盖数量
func (s *CartService) Add(input AddCartItemInput) (*models.CartItem, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidCustomer
	}
	if input.ProductID == 0 {
		return nil, ErrProductNotFound
	}
	if input.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if _, _, err := s.loadLine(input.ProductID, input.VariantID); err != nil {
		return nil, err
	}
	now := time.Now()
	item := &models.CartItem{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		Quantity:  input.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cartRepo.Upsert(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity 修改购物车项数量（购物车阶段唯一可变字段）
func (s *CartService) UpdateQuantity(userID, itemID uint, quantity int) error {
	if userID == 0 {
		return ErrInvalidCustomer
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	rows, err := s.cartRepo.UpdateQuantity(userID, itemID, quantity)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Remove 删除购物车项
func (s *CartService) Remove(userID, itemID uint) error {
	if userID == 0 {
		return ErrInvalidCustomer
	}
	rows, err := s.cartRepo.Delete(userID, itemID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrInvalidCustomer
	}
	return s.cartRepo.ClearByUser(userID)
}

// isUnavailableLine 商品或规格已不可售，购物车行应移除
func isUnavailableLine(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrProductUnavailable) ||
		errors.Is(err, ErrVariantNotFound) ||
		errors.Is(err, ErrVariantMismatch)
}

func (s *CartService) loadLine(productID, variantID uint) (*models.Product, *models.ProductVariant, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, nil, ErrProductUnavailable
	}
	if variantID == 0 {
		return product, nil, nil
	}
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, nil, err
	}
	if variant == nil {
		return nil, nil, ErrVariantNotFound
	}
	if variant.ProductID != product.ID {
		return nil, nil, ErrVariantMismatch
	}
	return product, variant, nil
}
