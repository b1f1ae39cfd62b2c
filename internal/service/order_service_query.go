package service

import (
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/repository"
)

// GetOrder 获取订单详情（管理端）
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderForCustomer 获取买家自己的订单，非本人订单按不存在处理
func (s *OrderService) GetOrderForCustomer(orderID, customerID uint) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersForCustomer 分页获取买家订单
func (s *OrderService) ListOrdersForCustomer(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.CustomerID == 0 {
		return nil, 0, ErrInvalidCustomer
	}
	if filter.Status != "" {
		status, err := normalizeOrderStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = status
	}
	return s.orderRepo.ListByCustomer(filter)
}
