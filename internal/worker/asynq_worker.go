package worker

import (
	"context"
	"errors"

	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/provider"
	"github.com/marketplace-next/internal/queue"
	"github.com/marketplace-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderRevenueRecognize, c.handleOrderRevenueRecognize)
	mux.HandleFunc(queue.TaskOrderExpireCancel, c.handleOrderExpireCancel)
}

func (c *Consumer) handleOrderRevenueRecognize(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_revenue_recognize_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderRevenueRecognizePayload(task)
	if err != nil {
		logger.Warnw("worker_revenue_recognize_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_revenue_recognize_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.RevenueService == nil {
		logger.Warnw("worker_revenue_recognize_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	record, err := c.RevenueService.RecognizeOrder(ctx, payload.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRevenueAlreadyRecorded):
			logger.Debugw("worker_revenue_recognize_skip_recorded", "order_id", payload.OrderID)
			return nil
		case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrOrderNotDelivered):
			logger.Debugw("worker_revenue_recognize_skip_ineligible", "order_id", payload.OrderID, "error", err)
			return nil
		default:
			logger.Warnw("worker_revenue_recognize_failed",
				"order_id", payload.OrderID,
				"reason", payload.Reason,
				"error", err,
			)
			return err
		}
	}
	logger.Infow("worker_revenue_recognized",
		"order_id", payload.OrderID,
		"reason", payload.Reason,
		"shop_earning", record.ShopEarning.String(),
	)
	return nil
}

func (c *Consumer) handleOrderExpireCancel(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_order_expire_cancel_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderExpireCancelPayload(task)
	if err != nil {
		logger.Warnw("worker_order_expire_cancel_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_expire_cancel_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_expire_cancel_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.OrderService.CancelIfExpired(ctx, payload.OrderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_expire_cancel_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_expire_cancel_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}
