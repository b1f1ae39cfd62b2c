package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/marketplace-next/internal/broker"
	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/metrics"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultBatchCutoffDays = 3

// RevenueOptions 收入结算参数
type RevenueOptions struct {
	CommissionRate  decimal.Decimal
	BatchCutoffDays int
}

// RevenueService 店铺收入确认与打款批次
type RevenueService struct {
	orderRepo   repository.OrderRepository
	revenueRepo repository.RevenueRepository
	batchRepo   repository.PaymentBatchRepository
	publisher   broker.Publisher
	rate        decimal.Decimal
	cutoffDays  int
	now         func() time.Time
}

// NewRevenueService 创建收入服务
func NewRevenueService(orderRepo repository.OrderRepository, revenueRepo repository.RevenueRepository, batchRepo repository.PaymentBatchRepository, publisher broker.Publisher, opts RevenueOptions) *RevenueService {
	if publisher == nil {
		publisher = broker.NopPublisher{}
	}
	cutoffDays := opts.BatchCutoffDays
	if cutoffDays <= 0 {
		cutoffDays = defaultBatchCutoffDays
	}
	return &RevenueService{
		orderRepo:   orderRepo,
		revenueRepo: revenueRepo,
		batchRepo:   batchRepo,
		publisher:   publisher,
		rate:        opts.CommissionRate,
		cutoffDays:  cutoffDays,
		now:         time.Now,
	}
}

// RecognizeSummary 补录扫描结果
type RecognizeSummary struct {
	Scanned    int `json:"scanned"`
	Recognized int `json:"recognized"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// RecognizeOrder 为已送达订单生成唯一一条店铺收入记录
func (s *RevenueService) RecognizeOrder(ctx context.Context, orderID uint) (*models.ShopRevenueRecord, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusDelivered {
		return nil, ErrOrderNotDelivered
	}
	existing, err := s.revenueRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrRevenueAlreadyRecorded
	}

	record := buildRevenueRecord(order, s.rate, s.now())
	if err := s.revenueRepo.Create(record); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrRevenueAlreadyRecorded
		}
		return nil, err
	}
	metrics.RevenueRecordedTotal.Inc()
	publishEvent(ctx, s.publisher, broker.NewEvent(constants.EventRevenueRecognized, broker.OrderKey(order.ID), map[string]interface{}{
		"order_id":          order.ID,
		"shop_id":           record.ShopID,
		"total_amount":      record.TotalAmount,
		"commission_amount": record.CommissionAmount,
		"shop_earning":      record.ShopEarning,
	}))
	return record, nil
}

// RecognizeMissing 扫描已送达但缺少收入记录的订单并补录
func (s *RevenueService) RecognizeMissing(ctx context.Context, limit int) (RecognizeSummary, error) {
	var summary RecognizeSummary
	orders, err := s.orderRepo.ListDeliveredWithoutRevenue(limit)
	if err != nil {
		return summary, err
	}
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Scanned++
		_, err := s.RecognizeOrder(ctx, order.ID)
		switch {
		case err == nil:
			summary.Recognized++
		case errors.Is(err, ErrRevenueAlreadyRecorded):
			summary.Skipped++
		default:
			summary.Failed++
			metrics.RevenueRecognitionFailedTotal.Inc()
			logger.Warnw("revenue_reconcile_order_failed",
				"order_id", order.ID,
				"error", err,
			)
		}
	}
	return summary, nil
}

// CreatePaymentBatch 将截止时间前未打款的收入记录归入新批次
func (s *RevenueService) CreatePaymentBatch(ctx context.Context, cutoff time.Time) (*models.PaymentBatch, error) {
	records, err := s.revenueRepo.ListUnbatchedBefore(cutoff)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoUnpaidRecords
	}
	now := s.now()
	batch := &models.PaymentBatch{
		BatchID:     generateBatchID(now),
		StartDate:   records[0].TransactionDate,
		EndDate:     cutoff,
		TotalAmount: models.ZeroMoney(),
		Status:      constants.PaymentBatchStatusPending,
	}
	ids := make([]uint, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		batchRepo := s.batchRepo.WithTx(tx)
		revenueRepo := s.revenueRepo.WithTx(tx)
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		rows, err := revenueRepo.AssignBatch(ids, batch.BatchID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNoUnpaidRecords
		}
		stamped, err := revenueRepo.ListByBatch(batch.BatchID)
		if err != nil {
			return err
		}
		summarizeBatch(batch, stamped)
		return batchRepo.Update(batch)
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentBatchesCreatedTotal.Inc()
	publishEvent(ctx, s.publisher, broker.NewEvent(constants.EventPaymentBatchCreated, batch.BatchID, map[string]interface{}{
		"batch_id":     batch.BatchID,
		"total_shops":  batch.TotalShops,
		"total_amount": batch.TotalAmount,
	}))
	return batch, nil
}

// CreateDuePaymentBatch 以 now 减去结算周期作为截止时间创建批次
func (s *RevenueService) CreateDuePaymentBatch(ctx context.Context, now time.Time) (*models.PaymentBatch, error) {
	return s.CreatePaymentBatch(ctx, now.AddDate(0, 0, -s.cutoffDays))
}

// SettleBatch 完成打款批次并将其记录标记为已打款
func (s *RevenueService) SettleBatch(ctx context.Context, batchID, reference string) (*models.PaymentBatch, error) {
	batchID = strings.TrimSpace(batchID)
	reference = strings.TrimSpace(reference)
	if batchID == "" {
		return nil, ErrBatchNotFound
	}
	if reference == "" {
		return nil, ErrInvalidBatchReference
	}
	now := s.now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		batchRepo := s.batchRepo.WithTx(tx)
		rows, err := batchRepo.Complete(batchID, reference, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			existing, err := batchRepo.GetByBatchID(batchID)
			if err != nil {
				return err
			}
			if existing == nil {
				return ErrBatchNotFound
			}
			return ErrBatchAlreadyCompleted
		}
		_, err = s.revenueRepo.WithTx(tx).MarkBatchPaid(batchID, reference, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	batch, err := s.batchRepo.GetByBatchID(batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, ErrBatchNotFound
	}
	metrics.PaymentBatchesSettledTotal.Inc()
	publishEvent(ctx, s.publisher, broker.NewEvent(constants.EventPaymentBatchSettled, batch.BatchID, map[string]interface{}{
		"batch_id":          batch.BatchID,
		"payment_reference": batch.PaymentReference,
		"total_amount":      batch.TotalAmount,
	}))
	return batch, nil
}

// GetBatch 获取打款批次
func (s *RevenueService) GetBatch(batchID string) (*models.PaymentBatch, error) {
	batch, err := s.batchRepo.GetByBatchID(strings.TrimSpace(batchID))
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, ErrBatchNotFound
	}
	return batch, nil
}

func buildRevenueRecord(order *models.Order, rate decimal.Decimal, now time.Time) *models.ShopRevenueRecord {
	total := order.TotalPrice.Decimal.Round(2)
	commission := total.Mul(rate).Round(2)
	transactionDate := now
	if order.DeliveredAt != nil {
		transactionDate = *order.DeliveredAt
	}
	return &models.ShopRevenueRecord{
		ShopID:           order.ShopID,
		OrderID:          order.ID,
		TotalAmount:      models.NewMoneyFromDecimal(total),
		CommissionRate:   rate,
		CommissionAmount: models.NewMoneyFromDecimal(commission),
		ShopEarning:      models.NewMoneyFromDecimal(total.Sub(commission)),
		TransactionDate:  transactionDate,
	}
}

func summarizeBatch(batch *models.PaymentBatch, records []models.ShopRevenueRecord) {
	total := models.ZeroMoney()
	shops := make(map[uint]struct{}, len(records))
	for idx, record := range records {
		total = total.Add(record.ShopEarning)
		shops[record.ShopID] = struct{}{}
		if idx == 0 || record.TransactionDate.Before(batch.StartDate) {
			batch.StartDate = record.TransactionDate
		}
	}
	batch.TotalAmount = total
	batch.TotalShops = len(shops)
}

func generateBatchID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "PB" + now.Format("20060102") + suffix
}

// publishEvent 投递领域事件，失败只记录日志
func publishEvent(ctx context.Context, publisher broker.Publisher, event broker.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warnw("domain_event_publish_failed",
			"event_type", event.EventType,
			"event_key", event.Key,
			"error", err,
		)
	}
}
