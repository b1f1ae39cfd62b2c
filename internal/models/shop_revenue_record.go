package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShopRevenueRecord 店铺收入记录，每个已送达订单仅一条
type ShopRevenueRecord struct {
	ID               uint            `gorm:"primarykey" json:"id"`                                           // 主键
	ShopID           uint            `gorm:"not null;index" json:"shop_id"`                                  // 店铺ID
	OrderID          uint            `gorm:"not null;uniqueIndex" json:"order_id"`                           // 订单ID
	TotalAmount      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`      // 订单金额
	CommissionRate   decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"commission_rate"`   // 平台佣金比例
	CommissionAmount Money           `gorm:"type:decimal(20,2);not null;default:0" json:"commission_amount"` // 平台佣金
	ShopEarning      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"shop_earning"`      // 店铺应得
	TransactionDate  time.Time       `gorm:"not null;index" json:"transaction_date"`                         // 入账时间
	IsPaid           bool            `gorm:"not null;default:false;index" json:"is_paid"`                    // 是否已打款
	PaymentBatch     *string         `gorm:"type:varchar(64);index" json:"payment_batch,omitempty"`          // 所属打款批次
	PaymentDate      *time.Time      `json:"payment_date,omitempty"`                                         // 打款时间
	PaymentID        string          `gorm:"type:varchar(128)" json:"payment_id,omitempty"`                  // 打款流水号
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt        time.Time       `json:"updated_at"`                                                     // 更新时间
}

// TableName 指定表名
func (ShopRevenueRecord) TableName() string {
	return "shop_revenue_records"
}
