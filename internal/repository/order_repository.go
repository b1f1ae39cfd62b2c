package repository

import (
	"errors"
	"time"

	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	ListByCustomer(filter OrderListFilter) ([]models.Order, int64, error)
	TransitionStatus(id uint, from []string, to string, at time.Time) (int64, error)
	ListDeliveredWithoutRevenue(limit int) ([]models.Order, error)
	ListStatusBefore(status string, before time.Time, limit int) ([]models.Order, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单及订单行
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID 获取订单（含订单行）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Lines").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByCustomer 分页获取买家订单
func (r *GormOrderRepository) ListByCustomer(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("customer_id = ?", filter.CustomerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	query = applyPagination(query.Preload("Lines").Order("id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// TransitionStatus 仅当当前状态属于 from 时切换状态，返回受影响行数
func (r *GormOrderRepository) TransitionStatus(id uint, from []string, to string, at time.Time) (int64, error) {
	if id == 0 || len(from) == 0 || to == "" {
		return 0, errors.New("invalid status transition")
	}
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	if column := statusTimestampColumn(to); column != "" {
		updates[column] = at
	}
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// ListDeliveredWithoutRevenue 查询已送达但缺少收入记录的订单
func (r *GormOrderRepository) ListDeliveredWithoutRevenue(limit int) ([]models.Order, error) {
	query := r.db.Model(&models.Order{}).
		Where("orders.status = ?", constants.OrderStatusDelivered).
		Where("NOT EXISTS (SELECT 1 FROM shop_revenue_records r WHERE r.order_id = orders.id)").
		Order("orders.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListStatusBefore 查询指定状态且创建早于 before 的订单
func (r *GormOrderRepository) ListStatusBefore(status string, before time.Time, limit int) ([]models.Order, error) {
	query := r.db.Model(&models.Order{}).
		Where("status = ? AND created_at < ?", status, before).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func statusTimestampColumn(status string) string {
	switch status {
	case constants.OrderStatusProcessing:
		return "processing_at"
	case constants.OrderStatusShipped:
		return "shipped_at"
	case constants.OrderStatusDelivered:
		return "delivered_at"
	case constants.OrderStatusCancelled:
		return "cancelled_at"
	default:
		return ""
	}
}
