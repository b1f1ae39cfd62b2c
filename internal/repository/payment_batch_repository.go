package repository

import (
	"errors"
	"time"

	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/models"

	"gorm.io/gorm"
)

// PaymentBatchRepository 打款批次数据访问接口
type PaymentBatchRepository interface {
	Create(batch *models.PaymentBatch) error
	Update(batch *models.PaymentBatch) error
	GetByBatchID(batchID string) (*models.PaymentBatch, error)
	Complete(batchID, reference string, at time.Time) (int64, error)
	WithTx(tx *gorm.DB) PaymentBatchRepository
}

// GormPaymentBatchRepository GORM 实现
type GormPaymentBatchRepository struct {
	db *gorm.DB
}

// NewPaymentBatchRepository 创建打款批次仓库
func NewPaymentBatchRepository(db *gorm.DB) *GormPaymentBatchRepository {
	return &GormPaymentBatchRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentBatchRepository) WithTx(tx *gorm.DB) PaymentBatchRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentBatchRepository{db: tx}
}

// Create 创建批次
func (r *GormPaymentBatchRepository) Create(batch *models.PaymentBatch) error {
	return r.db.Create(batch).Error
}

// Update 更新待处理批次的汇总字段
func (r *GormPaymentBatchRepository) Update(batch *models.PaymentBatch) error {
	return r.db.Model(&models.PaymentBatch{}).
		Where("id = ? AND status = ?", batch.ID, constants.PaymentBatchStatusPending).
		Updates(map[string]interface{}{
			"start_date":   batch.StartDate,
			"total_shops":  batch.TotalShops,
			"total_amount": batch.TotalAmount,
			"updated_at":   time.Now(),
		}).Error
}

// GetByBatchID 根据批次号获取
func (r *GormPaymentBatchRepository) GetByBatchID(batchID string) (*models.PaymentBatch, error) {
	var batch models.PaymentBatch
	if err := r.db.Where("batch_id = ?", batchID).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// Complete 仅当批次处于 pending 时标记完成，返回受影响行数
func (r *GormPaymentBatchRepository) Complete(batchID, reference string, at time.Time) (int64, error) {
	result := r.db.Model(&models.PaymentBatch{}).
		Where("batch_id = ? AND status = ?", batchID, constants.PaymentBatchStatusPending).
		Updates(map[string]interface{}{
			"status":            constants.PaymentBatchStatusCompleted,
			"processed_at":      at,
			"payment_reference": reference,
			"updated_at":        at,
		})
	return result.RowsAffected, result.Error
}
