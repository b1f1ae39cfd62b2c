package worker

import (
	"context"
	"errors"
	"time"

	"github.com/marketplace-next/internal/cache"
	"github.com/marketplace-next/internal/config"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/queue"
	"github.com/marketplace-next/internal/service"

	"github.com/hibiken/asynq"
)

const (
	jobPaymentBatch     = "payment_batch_create"
	jobRevenueReconcile = "revenue_reconcile"
	jobOrderExpire      = "order_expire_cancel"

	paymentBatchLockKey = "lock:payment_batch"
)

// Service 异步队列服务
type Service struct {
	name      string
	server    *asynq.Server
	mux       *asynq.ServeMux
	consumer  *Consumer
	scheduler *Scheduler
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil || consumer.Container == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	var lock cache.Lock
	redisLock, err := cache.NewRedisLock(paymentBatchLockKey, 0)
	if err != nil {
		logger.Warnw("worker_payment_batch_lock_unavailable", "error", err)
	} else {
		lock = redisLock
	}
	interval := time.Duration(cfg.Revenue.BatchIntervalMinutes) * time.Minute
	return &Service{
		name:      "worker",
		server:    server,
		mux:       mux,
		consumer:  consumer,
		scheduler: NewScheduler(interval, lock, buildJobs(consumer, cfg.Revenue.ReconcileLimit)...),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	go s.scheduler.Run(ctx)
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func buildJobs(consumer *Consumer, reconcileLimit int) []Job {
	if reconcileLimit <= 0 {
		reconcileLimit = 100
	}
	jobs := make([]Job, 0, 3)
	if consumer.RevenueService != nil {
		revenue := consumer.RevenueService
		jobs = append(jobs,
			Job{
				Name: jobRevenueReconcile,
				Run: func(ctx context.Context, _ time.Time) error {
					summary, err := revenue.RecognizeMissing(ctx, reconcileLimit)
					if err != nil {
						return err
					}
					if summary.Scanned > 0 {
						logger.Infow("worker_revenue_reconciled",
							"scanned", summary.Scanned,
							"recognized", summary.Recognized,
							"skipped", summary.Skipped,
							"failed", summary.Failed,
						)
					}
					return nil
				},
			},
			Job{
				Name:      jobPaymentBatch,
				Exclusive: true,
				Run: func(ctx context.Context, now time.Time) error {
					batch, err := revenue.CreateDuePaymentBatch(ctx, now)
					if errors.Is(err, service.ErrNoUnpaidRecords) {
						return nil
					}
					if err != nil {
						return err
					}
					logger.Infow("worker_payment_batch_created",
						"batch_id", batch.BatchID,
						"total_shops", batch.TotalShops,
						"total_amount", batch.TotalAmount.String(),
					)
					return nil
				},
			},
		)
	}
	if consumer.OrderService != nil {
		orders := consumer.OrderService
		jobs = append(jobs, Job{
			Name: jobOrderExpire,
			Run: func(ctx context.Context, now time.Time) error {
				cancelled, err := orders.CancelExpiredPending(ctx, now)
				if cancelled > 0 {
					logger.Infow("worker_expired_orders_cancelled", "count", cancelled)
				}
				return err
			},
		})
	}
	return jobs
}
