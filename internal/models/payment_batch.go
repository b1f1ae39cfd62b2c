package models

import "time"

// PaymentBatch 店铺结算打款批次，完成后不可变更
type PaymentBatch struct {
	ID               uint       `gorm:"primarykey" json:"id"`                                      // 主键
	BatchID          string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"batch_id"`     // 批次号
	StartDate        time.Time  `json:"start_date"`                                                // 覆盖的最早入账时间
	EndDate          time.Time  `json:"end_date"`                                                  // 截止时间
	TotalShops       int        `gorm:"not null;default:0" json:"total_shops"`                     // 涉及店铺数
	TotalAmount      Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 应付合计
	Status           string     `gorm:"type:varchar(20);not null;index" json:"status"`             // pending/completed
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`                                    // 完成时间
	PaymentReference string     `gorm:"type:varchar(128)" json:"payment_reference,omitempty"`      // 外部打款流水
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt        time.Time  `json:"updated_at"`                                                // 更新时间
}

// TableName 指定表名
func (PaymentBatch) TableName() string {
	return "payment_batches"
}
