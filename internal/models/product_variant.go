package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品规格；价格、库存为空时沿用商品本身
type ProductVariant struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                                                       // 主键
	ProductID  uint           `gorm:"not null;index;uniqueIndex:idx_product_variant_code" json:"product_id"`                      // 商品ID
	SKUCode    string         `gorm:"column:sku_code;type:varchar(64);not null;uniqueIndex:idx_product_variant_code" json:"sku_code"` // 规格编码（同商品内唯一）
	Price      *Money         `gorm:"type:decimal(20,2)" json:"price,omitempty"`                                                  // 规格价格
	Stock      *int           `json:"stock,omitempty"`                                                                            // 规格库存
	Attributes StringMap      `gorm:"type:json" json:"attributes"`                                                                // 规格属性
	IsDefault  bool           `gorm:"not null;default:false" json:"is_default"`                                                   // 是否默认规格
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                                                    // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                                                                 // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                                                             // 软删除时间
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
