package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// PromotionKind 优惠种类
type PromotionKind string

// 优惠种类常量
const (
	PromotionKindDiscount PromotionKind = "discount"
	PromotionKindCoupon   PromotionKind = "coupon"
)

// 优惠计算方式常量
const (
	PromotionTypeFixed      = "fixed"
	PromotionTypePercentage = "percentage"
)

// 打款批次状态常量
const (
	PaymentBatchStatusPending   = "pending"
	PaymentBatchStatusCompleted = "completed"
)

// 异步任务类型
const (
	TaskOrderRevenueRecognize = "order:revenue_recognize"
	TaskOrderExpireCancel     = "order:expire_cancel"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 领域事件类型
const (
	EventOrderCreated        = "order.created"
	EventOrderCancelled      = "order.cancelled"
	EventOrderStatusChanged  = "order.status_changed"
	EventRevenueRecognized   = "revenue.recognized"
	EventPaymentBatchCreated = "payment_batch.created"
	EventPaymentBatchSettled = "payment_batch.settled"
)
