package repository

import (
	"errors"
	"time"

	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/models"

	"gorm.io/gorm"
)

// PromotionUsageRepository 优惠使用台账数据访问接口
type PromotionUsageRepository interface {
	Get(kind constants.PromotionKind, promotionID, userID uint) (*models.PromotionUsage, error)
	CountByUser(kind constants.PromotionKind, promotionID, userID uint) (int, error)
	IncrementBelow(kind constants.PromotionKind, promotionID, userID uint, limit int) (int64, error)
	Insert(usage *models.PromotionUsage) error
	Decrement(kind constants.PromotionKind, promotionID, userID uint) (int64, error)
	DeleteEmpty(kind constants.PromotionKind, promotionID, userID uint) error
	ListByPromotion(kind constants.PromotionKind, promotionID uint) ([]models.PromotionUsage, error)
	WithTx(tx *gorm.DB) PromotionUsageRepository
}

// GormPromotionUsageRepository GORM 实现
type GormPromotionUsageRepository struct {
	db *gorm.DB
}

// NewPromotionUsageRepository 创建使用台账仓库
func NewPromotionUsageRepository(db *gorm.DB) *GormPromotionUsageRepository {
	return &GormPromotionUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromotionUsageRepository) WithTx(tx *gorm.DB) PromotionUsageRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionUsageRepository{db: tx}
}

// Get 获取某用户的使用记录
func (r *GormPromotionUsageRepository) Get(kind constants.PromotionKind, promotionID, userID uint) (*models.PromotionUsage, error) {
	var usage models.PromotionUsage
	err := r.db.Where("promotion_kind = ? AND promotion_id = ? AND user_id = ?", string(kind), promotionID, userID).
		First(&usage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &usage, nil
}

// CountByUser 获取用户已使用次数
func (r *GormPromotionUsageRepository) CountByUser(kind constants.PromotionKind, promotionID, userID uint) (int, error) {
	usage, err := r.Get(kind, promotionID, userID)
	if err != nil || usage == nil {
		return 0, err
	}
	return usage.UseCount, nil
}

// IncrementBelow 计数低于 limit 时 +1（limit<=0 表示不限），返回受影响行数
func (r *GormPromotionUsageRepository) IncrementBelow(kind constants.PromotionKind, promotionID, userID uint, limit int) (int64, error) {
	query := r.db.Model(&models.PromotionUsage{}).
		Where("promotion_kind = ? AND promotion_id = ? AND user_id = ?", string(kind), promotionID, userID)
	if limit > 0 {
		query = query.Where("use_count < ?", limit)
	}
	result := query.Updates(map[string]interface{}{
		"use_count":  gorm.Expr("use_count + ?", 1),
		"updated_at": time.Now(),
	})
	return result.RowsAffected, result.Error
}

// Insert 新建使用记录
func (r *GormPromotionUsageRepository) Insert(usage *models.PromotionUsage) error {
	return r.db.Create(usage).Error
}

// Decrement 计数 -1，不低于 0
func (r *GormPromotionUsageRepository) Decrement(kind constants.PromotionKind, promotionID, userID uint) (int64, error) {
	result := r.db.Model(&models.PromotionUsage{}).
		Where("promotion_kind = ? AND promotion_id = ? AND user_id = ? AND use_count > 0", string(kind), promotionID, userID).
		Updates(map[string]interface{}{
			"use_count":  gorm.Expr("use_count - ?", 1),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DeleteEmpty 删除计数已归零的记录
func (r *GormPromotionUsageRepository) DeleteEmpty(kind constants.PromotionKind, promotionID, userID uint) error {
	return r.db.Where("promotion_kind = ? AND promotion_id = ? AND user_id = ? AND use_count <= 0", string(kind), promotionID, userID).
		Delete(&models.PromotionUsage{}).Error
}

// ListByPromotion 获取某优惠的全部使用记录
func (r *GormPromotionUsageRepository) ListByPromotion(kind constants.PromotionKind, promotionID uint) ([]models.PromotionUsage, error) {
	var usages []models.PromotionUsage
	if err := r.db.Where("promotion_kind = ? AND promotion_id = ?", string(kind), promotionID).
		Order("user_id ASC").Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}
