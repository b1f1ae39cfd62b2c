package models

import (
	"time"

	"gorm.io/gorm"
)

// PromotionRule 折扣与优惠券共用的规则字段
type PromotionRule struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                            // 主键
	Code             string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"code"`               // 优惠码
	Type             string         `gorm:"type:varchar(20);not null" json:"type"`                           // 类型（fixed/percentage）
	Value            Money          `gorm:"type:decimal(20,2);not null" json:"value"`                        // 数值（固定金额或百分比）
	MinOrderValue    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_value"`    // 使用门槛
	MaxDiscountValue Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount_value"` // 百分比优惠封顶（0 表示不封顶）
	MaxUses          int            `gorm:"not null;default:0" json:"max_uses"`                              // 总使用上限（0 表示不限制）
	MaxUsesPerUser   int            `gorm:"not null;default:0" json:"max_uses_per_user"`                     // 每人使用上限（0 表示不限制）
	UsedCount        int            `gorm:"not null;default:0" json:"used_count"`                            // 已使用次数（等于使用台账合计）
	ProductID        uint           `gorm:"not null;default:0" json:"product_id,omitempty"`                  // 限定商品
	CategoryID       uint           `gorm:"not null;default:0" json:"category_id,omitempty"`                 // 限定分类
	ShopID           uint           `gorm:"not null;default:0" json:"shop_id,omitempty"`                     // 限定店铺
	StartDate        *time.Time     `gorm:"index" json:"start_date"`                                         // 生效时间
	EndDate          *time.Time     `gorm:"index" json:"end_date"`                                           // 失效时间
	IsActive         bool           `gorm:"not null;default:true" json:"is_active"`                          // 是否启用
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                      // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间
}

// HasScope 是否限定了适用范围
func (r *PromotionRule) HasScope() bool {
	return r != nil && (r.ProductID != 0 || r.CategoryID != 0 || r.ShopID != 0)
}

// Discount 全单折扣
type Discount struct {
	PromotionRule
}

// TableName 指定表名
func (Discount) TableName() string {
	return "discounts"
}

// Coupon 优惠券（可限定商品/分类/店铺）
type Coupon struct {
	PromotionRule
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
