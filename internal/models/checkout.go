package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingMethod 配送方式
type ShippingMethod struct {
	ID        uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name      string         `gorm:"type:varchar(120);not null" json:"name"`             // 名称
	Cost      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cost"` // 运费
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`             // 是否启用
	CreatedAt time.Time      `json:"created_at"`                                         // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (ShippingMethod) TableName() string {
	return "shipping_methods"
}

// Address 收货地址
type Address struct {
	ID         uint           `gorm:"primarykey" json:"id"`                   // 主键
	UserID     uint           `gorm:"not null;index" json:"user_id"`          // 所属用户
	Recipient  string         `gorm:"type:varchar(120)" json:"recipient"`     // 收件人
	Phone      string         `gorm:"type:varchar(40)" json:"phone"`          // 电话
	Line1      string         `gorm:"type:varchar(255)" json:"line1"`         // 详细地址
	City       string         `gorm:"type:varchar(120)" json:"city"`          // 城市
	PostalCode string         `gorm:"type:varchar(20)" json:"postal_code"`    // 邮编
	Country    string         `gorm:"type:varchar(64)" json:"country"`        // 国家
	CreatedAt  time.Time      `json:"created_at"`                             // 创建时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}

// PaymentMethod 支付方式（网关对接在外部完成）
type PaymentMethod struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	Name      string         `gorm:"type:varchar(120);not null" json:"name"` // 名称
	Provider  string         `gorm:"type:varchar(40)" json:"provider"`       // 提供方
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"` // 是否启用
	CreatedAt time.Time      `json:"created_at"`                             // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (PaymentMethod) TableName() string {
	return "payment_methods"
}
