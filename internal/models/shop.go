package models

import (
	"time"

	"gorm.io/gorm"
)

// Shop 店铺
type Shop struct {
	ID        uint           `gorm:"primarykey" json:"id"`                       // 主键
	Name      string         `gorm:"type:varchar(120);not null" json:"name"`     // 店铺名称
	IsActive  bool           `gorm:"not null;default:true;index" json:"is_active"` // 是否营业
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                 // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (Shop) TableName() string {
	return "shops"
}
