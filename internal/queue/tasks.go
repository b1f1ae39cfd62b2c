package queue

import (
	"encoding/json"
	"fmt"

	"github.com/marketplace-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderRevenueRecognize 补录店铺收入任务
	TaskOrderRevenueRecognize = constants.TaskOrderRevenueRecognize
	// TaskOrderExpireCancel 待处理订单超时取消任务
	TaskOrderExpireCancel = constants.TaskOrderExpireCancel
)

// OrderRevenueRecognizePayload 收入补录任务载荷
type OrderRevenueRecognizePayload struct {
	OrderID uint   `json:"order_id"`
	Reason  string `json:"reason,omitempty"`
}

// OrderExpireCancelPayload 超时取消任务载荷
type OrderExpireCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderRevenueRecognizeTask 创建收入补录任务
func NewOrderRevenueRecognizeTask(payload OrderRevenueRecognizePayload) (*asynq.Task, error) {
	if payload.OrderID == 0 {
		return nil, fmt.Errorf("revenue recognize task: order id is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderRevenueRecognize, body), nil
}

// NewOrderExpireCancelTask 创建超时取消任务
func NewOrderExpireCancelTask(payload OrderExpireCancelPayload) (*asynq.Task, error) {
	if payload.OrderID == 0 {
		return nil, fmt.Errorf("expire cancel task: order id is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderExpireCancel, body), nil
}

// ParseOrderRevenueRecognizePayload 解析收入补录任务载荷
func ParseOrderRevenueRecognizePayload(task *asynq.Task) (OrderRevenueRecognizePayload, error) {
	var payload OrderRevenueRecognizePayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// ParseOrderExpireCancelPayload 解析超时取消任务载荷
func ParseOrderExpireCancelPayload(task *asynq.Task) (OrderExpireCancelPayload, error) {
	var payload OrderExpireCancelPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
