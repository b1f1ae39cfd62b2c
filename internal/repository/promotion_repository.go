package repository

import (
	"errors"
	"fmt"

	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/models"

	"gorm.io/gorm"
)

// ErrUnknownPromotionKind 未知的优惠种类
var ErrUnknownPromotionKind = errors.New("unknown promotion kind")

// PromotionRepository 折扣/优惠券数据访问接口
type PromotionRepository interface {
	GetByCode(kind constants.PromotionKind, code string) (*models.PromotionRule, error)
	GetByID(kind constants.PromotionKind, id uint) (*models.PromotionRule, error)
	Create(kind constants.PromotionKind, rule *models.PromotionRule) error
	IncrementUsed(kind constants.PromotionKind, id uint) (int64, error)
	DecrementUsed(kind constants.PromotionKind, id uint) (int64, error)
	WithTx(tx *gorm.DB) PromotionRepository
}

// GormPromotionRepository GORM 实现
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建优惠仓库
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromotionRepository) WithTx(tx *gorm.DB) PromotionRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionRepository{db: tx}
}

// GetByCode 根据优惠码获取
func (r *GormPromotionRepository) GetByCode(kind constants.PromotionKind, code string) (*models.PromotionRule, error) {
	return r.first(kind, r.db.Where("code = ?", code))
}

// GetByID 根据 ID 获取
func (r *GormPromotionRepository) GetByID(kind constants.PromotionKind, id uint) (*models.PromotionRule, error) {
	return r.first(kind, r.db.Where("id = ?", id))
}

// Create 创建折扣或优惠券
func (r *GormPromotionRepository) Create(kind constants.PromotionKind, rule *models.PromotionRule) error {
	if rule == nil {
		return errors.New("promotion rule is nil")
	}
	switch kind {
	case constants.PromotionKindDiscount:
		record := models.Discount{PromotionRule: *rule}
		if err := r.db.Create(&record).Error; err != nil {
			return err
		}
		*rule = record.PromotionRule
	case constants.PromotionKindCoupon:
		record := models.Coupon{PromotionRule: *rule}
		if err := r.db.Create(&record).Error; err != nil {
			return err
		}
		*rule = record.PromotionRule
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPromotionKind, kind)
	}
	return nil
}

// IncrementUsed 未达总上限时累加使用次数，返回受影响行数（0 表示已达上限）
func (r *GormPromotionRepository) IncrementUsed(kind constants.PromotionKind, id uint) (int64, error) {
	model, err := promotionModel(kind)
	if err != nil {
		return 0, err
	}
	result := r.db.Model(model).
		Where("id = ? AND (max_uses = 0 OR used_count < max_uses)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	return result.RowsAffected, result.Error
}

// DecrementUsed 回退使用次数，不低于 0
func (r *GormPromotionRepository) DecrementUsed(kind constants.PromotionKind, id uint) (int64, error) {
	model, err := promotionModel(kind)
	if err != nil {
		return 0, err
	}
	result := r.db.Unscoped().Model(model).
		Where("id = ? AND used_count > 0", id).
		UpdateColumn("used_count", gorm.Expr("used_count - ?", 1))
	return result.RowsAffected, result.Error
}

func (r *GormPromotionRepository) first(kind constants.PromotionKind, query *gorm.DB) (*models.PromotionRule, error) {
	var (
		rule *models.PromotionRule
		err  error
	)
	switch kind {
	case constants.PromotionKindDiscount:
		var record models.Discount
		err = query.First(&record).Error
		rule = &record.PromotionRule
	case constants.PromotionKindCoupon:
		var record models.Coupon
		err = query.First(&record).Error
		rule = &record.PromotionRule
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPromotionKind, kind)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rule, nil
}

func promotionModel(kind constants.PromotionKind) (interface{}, error) {
	switch kind {
	case constants.PromotionKindDiscount:
		return &models.Discount{}, nil
	case constants.PromotionKindCoupon:
		return &models.Coupon{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPromotionKind, kind)
	}
}
