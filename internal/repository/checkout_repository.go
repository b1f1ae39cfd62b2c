package repository

import (
	"errors"

	"github.com/marketplace-next/internal/models"

	"gorm.io/gorm"
)

// CheckoutRepository 下单所需的店铺、配送、地址、支付方式查询
type CheckoutRepository interface {
	GetShop(id uint) (*models.Shop, error)
	GetShippingMethod(id uint) (*models.ShippingMethod, error)
	GetAddress(id uint) (*models.Address, error)
	GetPaymentMethod(id uint) (*models.PaymentMethod, error)
}

// GormCheckoutRepository GORM 实现
type GormCheckoutRepository struct {
	db *gorm.DB
}

// NewCheckoutRepository 创建下单辅助仓库
func NewCheckoutRepository(db *gorm.DB) *GormCheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

// GetShop 获取店铺
func (r *GormCheckoutRepository) GetShop(id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := firstByID(r.db, &shop, id); err != nil {
		return nil, err
	}
	if shop.ID == 0 {
		return nil, nil
	}
	return &shop, nil
}

// GetShippingMethod 获取配送方式
func (r *GormCheckoutRepository) GetShippingMethod(id uint) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	if err := firstByID(r.db, &method, id); err != nil {
		return nil, err
	}
	if method.ID == 0 {
		return nil, nil
	}
	return &method, nil
}

// GetAddress 获取收货地址
func (r *GormCheckoutRepository) GetAddress(id uint) (*models.Address, error) {
	var address models.Address
	if err := firstByID(r.db, &address, id); err != nil {
		return nil, err
	}
	if address.ID == 0 {
		return nil, nil
	}
	return &address, nil
}

// GetPaymentMethod 获取支付方式
func (r *GormCheckoutRepository) GetPaymentMethod(id uint) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	if err := firstByID(r.db, &method, id); err != nil {
		return nil, err
	}
	if method.ID == 0 {
		return nil, nil
	}
	return &method, nil
}

// firstByID 未找到时保持 dest 为零值并返回 nil
func firstByID(db *gorm.DB, dest interface{}, id uint) error {
	if id == 0 {
		return nil
	}
	if err := db.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return nil
}
