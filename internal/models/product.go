package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                // 主键
	ShopID    uint           `gorm:"not null;index" json:"shop_id"`                       // 所属店铺
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`              // 商品名称
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 默认售价
	Stock     int            `gorm:"not null;default:0" json:"stock"`                     // 库存（无规格或规格未设置库存时生效）
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`                 // 是否上架
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                          // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间

	// 关联
	Categories []Category       `gorm:"many2many:product_categories" json:"categories,omitempty"` // 分类
	Variants   []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`           // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// CategoryIDs 返回商品所属分类 ID
func (p *Product) CategoryIDs() []uint {
	if p == nil {
		return nil
	}
	ids := make([]uint, 0, len(p.Categories))
	for _, category := range p.Categories {
		ids = append(ids, category.ID)
	}
	return ids
}
