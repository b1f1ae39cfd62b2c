package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

var (
	OrdersCommittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_committed_total",
		Help:      "Total number of orders committed",
	})

	OrderCommitFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_commit_failed_total",
		Help:      "Total number of rejected order commits",
	}, []string{"kind"})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_cancelled_total",
		Help:      "Total number of cancelled orders",
	})

	OrderStatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_transitions_total",
		Help:      "Order status transitions by target status",
	}, []string{"status"})

	PromotionAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "promotion_applied_total",
		Help:      "Promotions accepted at order commit",
	}, []string{"promotion_kind"})

	PromotionRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "promotion_rejected_total",
		Help:      "Promotion evaluations rejected by reason",
	}, []string{"promotion_kind", "reason"})

	StockConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_conflicts_total",
		Help:      "Conditional stock decrements that matched no row",
	})

	RevenueRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revenue_records_total",
		Help:      "Shop revenue records created",
	})

	RevenueRecognitionFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revenue_recognition_failed_total",
		Help:      "Revenue recognitions that failed during delivery",
	})

	PaymentBatchesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_batches_created_total",
		Help:      "Payment batches created",
	})

	PaymentBatchesSettledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_batches_settled_total",
		Help:      "Payment batches settled",
	})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "worker_job_duration_seconds",
		Help:      "Duration of periodic worker jobs",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// ObserveJob 记录周期任务耗时
func ObserveJob(job string, started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	JobDuration.WithLabelValues(job, status).Observe(time.Since(started).Seconds())
}
