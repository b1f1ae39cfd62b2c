package repository

import (
	"errors"
	"time"

	"github.com/marketplace-next/internal/models"

	"gorm.io/gorm"
)

// RevenueRepository 店铺收入记录数据访问接口
type RevenueRepository interface {
	GetByOrderID(orderID uint) (*models.ShopRevenueRecord, error)
	Create(record *models.ShopRevenueRecord) error
	ListUnbatchedBefore(cutoff time.Time) ([]models.ShopRevenueRecord, error)
	AssignBatch(ids []uint, batchID string) (int64, error)
	ListByBatch(batchID string) ([]models.ShopRevenueRecord, error)
	MarkBatchPaid(batchID, paymentID string, paidAt time.Time) (int64, error)
	WithTx(tx *gorm.DB) RevenueRepository
}

// GormRevenueRepository GORM 实现
type GormRevenueRepository struct {
	db *gorm.DB
}

// NewRevenueRepository 创建收入记录仓库
func NewRevenueRepository(db *gorm.DB) *GormRevenueRepository {
	return &GormRevenueRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRevenueRepository) WithTx(tx *gorm.DB) RevenueRepository {
	if tx == nil {
		return r
	}
	return &GormRevenueRepository{db: tx}
}

// GetByOrderID 根据订单获取收入记录
func (r *GormRevenueRepository) GetByOrderID(orderID uint) (*models.ShopRevenueRecord, error) {
	var record models.ShopRevenueRecord
	if err := r.db.Where("order_id = ?", orderID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Create 创建收入记录
func (r *GormRevenueRepository) Create(record *models.ShopRevenueRecord) error {
	return r.db.Create(record).Error
}

// ListUnbatchedBefore 获取截止时间前未打款且未入批次的记录
func (r *GormRevenueRepository) ListUnbatchedBefore(cutoff time.Time) ([]models.ShopRevenueRecord, error) {
	var records []models.ShopRevenueRecord
	err := r.db.Where("is_paid = ? AND payment_batch IS NULL AND transaction_date < ?", false, cutoff).
		Order("transaction_date ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// AssignBatch 将仍未入批次的记录标记到批次，返回受影响行数
func (r *GormRevenueRepository) AssignBatch(ids []uint, batchID string) (int64, error) {
	if len(ids) == 0 || batchID == "" {
		return 0, nil
	}
	result := r.db.Model(&models.ShopRevenueRecord{}).
		Where("id IN ? AND payment_batch IS NULL AND is_paid = ?", ids, false).
		Updates(map[string]interface{}{
			"payment_batch": batchID,
			"updated_at":    time.Now(),
		})
	return result.RowsAffected, result.Error
}

// ListByBatch 获取批次内的记录
func (r *GormRevenueRepository) ListByBatch(batchID string) ([]models.ShopRevenueRecord, error) {
	var records []models.ShopRevenueRecord
	if err := r.db.Where("payment_batch = ?", batchID).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// MarkBatchPaid 将批次内未打款记录标记为已打款
func (r *GormRevenueRepository) MarkBatchPaid(batchID, paymentID string, paidAt time.Time) (int64, error) {
	result := r.db.Model(&models.ShopRevenueRecord{}).
		Where("payment_batch = ? AND is_paid = ?", batchID, false).
		Updates(map[string]interface{}{
			"is_paid":      true,
			"payment_date": paidAt,
			"payment_id":   paymentID,
			"updated_at":   paidAt,
		})
	return result.RowsAffected, result.Error
}
