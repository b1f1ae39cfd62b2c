package models

import "time"

// OrderLine 订单行，创建后不可修改
type OrderLine struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID        uint      `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductID      uint      `gorm:"index;not null" json:"product_id"`                         // 商品ID
	VariantID      *uint     `gorm:"index" json:"variant_id,omitempty"`                        // 规格ID
	Quantity       int       `gorm:"not null" json:"quantity"`                                 // 数量
	UnitPrice      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 成交单价
	LineTotal      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"line_total"` // 行小计
	OverridePrice  *Money    `gorm:"type:decimal(20,2)" json:"override_price,omitempty"`      // 运营改价
	StockOnVariant bool      `gorm:"not null;default:false" json:"stock_on_variant"`          // 下单时扣减的是规格库存
	DiscountRef    string    `gorm:"type:varchar(64)" json:"discount_ref,omitempty"`          // 关联优惠码
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
}

// TableName 指定表名
func (OrderLine) TableName() string {
	return "order_lines"
}
