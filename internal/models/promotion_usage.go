package models

import "time"

// PromotionUsage 优惠使用台账：每个（优惠, 用户）一行，计数归零时删除
type PromotionUsage struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                                                // 主键
	PromotionKind string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_promotion_usage_key" json:"promotion_kind"` // discount/coupon
	PromotionID   uint      `gorm:"not null;uniqueIndex:idx_promotion_usage_key" json:"promotion_id"`                    // 优惠ID
	UserID        uint      `gorm:"not null;uniqueIndex:idx_promotion_usage_key" json:"user_id"`                         // 用户ID
	UseCount      int       `gorm:"not null;default:0" json:"use_count"`                                                 // 使用次数
	CreatedAt     time.Time `json:"created_at"`                                                                          // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                                                          // 更新时间
}

// TableName 指定表名
func (PromotionUsage) TableName() string {
	return "promotion_usages"
}
