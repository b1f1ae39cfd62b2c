package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	CustomerID     uint           `gorm:"index;not null" json:"customer_id"`                            // 买家ID
	ShopID         uint           `gorm:"index;not null" json:"shop_id"`                                // 店铺ID
	AddressID      uint           `gorm:"not null" json:"address_id"`                                   // 收货地址ID
	ShippingID     uint           `gorm:"not null" json:"shipping_id"`                                  // 配送方式ID
	PaymentID      uint           `gorm:"not null" json:"payment_id"`                                   // 支付方式ID
	Status         string         `gorm:"type:varchar(20);index;not null" json:"status"`                // 订单状态
	OriginalPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"`  // 商品原价合计
	DiscountID     *uint          `gorm:"index" json:"discount_id,omitempty"`                           // 折扣ID
	DiscountCode   string         `gorm:"type:varchar(64)" json:"discount_code,omitempty"`              // 折扣码
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 折扣金额
	CouponID       *uint          `gorm:"index" json:"coupon_id,omitempty"`                             // 优惠券ID
	CouponCode     string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`                // 优惠码
	CouponAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"coupon_amount"`   // 优惠券金额
	ShippingCost   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`   // 运费
	TotalPrice     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`     // 实付金额
	ProcessingAt   *time.Time     `json:"processing_at,omitempty"`                                      // 开始处理时间
	ShippedAt      *time.Time     `json:"shipped_at,omitempty"`                                         // 发货时间
	DeliveredAt    *time.Time     `gorm:"index" json:"delivered_at,omitempty"`                          // 送达时间
	CancelledAt    *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`                          // 取消时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Lines []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"` // 订单行
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
