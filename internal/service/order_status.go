package service

import (
	"strings"

	"github.com/marketplace-next/internal/constants"
)

// forwardTransitions 正向流转只允许单步推进
var forwardTransitions = map[string]string{
	constants.OrderStatusProcessing: constants.OrderStatusPending,
	constants.OrderStatusShipped:    constants.OrderStatusProcessing,
	constants.OrderStatusDelivered:  constants.OrderStatusShipped,
}

// cancellableStatuses 允许取消的状态
var cancellableStatuses = []string{
	constants.OrderStatusPending,
	constants.OrderStatusProcessing,
}

func normalizeOrderStatus(raw string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// previousStatus 返回目标状态唯一合法的前置状态
func previousStatus(target string) (string, bool) {
	prev, ok := forwardTransitions[target]
	return prev, ok
}

func isTransitionAllowed(current, target string) bool {
	if target == constants.OrderStatusCancelled {
		return isCancellable(current)
	}
	prev, ok := previousStatus(target)
	return ok && prev == current
}

func isCancellable(status string) bool {
	for _, s := range cancellableStatuses {
		if s == status {
			return true
		}
	}
	return false
}
