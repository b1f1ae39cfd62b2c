package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/marketplace-next/internal/broker"
	"github.com/marketplace-next/internal/cache"
	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/metrics"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/queue"
	"github.com/marketplace-next/internal/repository"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// OrderTaskQueue 订单相关异步任务投递
type OrderTaskQueue interface {
	EnqueueOrderRevenueRecognize(payload queue.OrderRevenueRecognizePayload, opts ...asynq.Option) error
	EnqueueOrderExpireCancel(payload queue.OrderExpireCancelPayload, delay time.Duration) error
}

// OrderOptions 订单参数
type OrderOptions struct {
	PendingExpireMinutes int
	MaxLinesPerOrder     int
	CatalogTTL           time.Duration
}

// OrderService 订单服务
type OrderService struct {
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	variantRepo      repository.ProductVariantRepository
	checkoutRepo     repository.CheckoutRepository
	cartRepo         repository.CartRepository
	promotionService *PromotionService
	inventoryService *InventoryService
	revenueService   *RevenueService
	taskQueue        OrderTaskQueue
	publisher        broker.Publisher
	options          OrderOptions
	now              func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	checkoutRepo repository.CheckoutRepository,
	cartRepo repository.CartRepository,
	promotionService *PromotionService,
	inventoryService *InventoryService,
	revenueService *RevenueService,
	taskQueue OrderTaskQueue,
	publisher broker.Publisher,
	options OrderOptions,
) *OrderService {
	if publisher == nil {
		publisher = broker.NopPublisher{}
	}
	return &OrderService{
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		variantRepo:      variantRepo,
		checkoutRepo:     checkoutRepo,
		cartRepo:         cartRepo,
		promotionService: promotionService,
		inventoryService: inventoryService,
		revenueService:   revenueService,
		taskQueue:        taskQueue,
		publisher:        publisher,
		options:          options,
		now:              time.Now,
	}
}

// CartLine 下单行输入
type CartLine struct {
	ProductID     uint          `json:"product_id"`
	VariantID     uint          `json:"variant_id"`
	Quantity      int           `json:"quantity"`
	OverridePrice *models.Money `json:"override_price,omitempty"`
}

// CommitOrderInput 提交订单输入
type CommitOrderInput struct {
	CustomerID   uint
	Lines        []CartLine
	AddressID    uint
	ShippingID   uint
	PaymentID    uint
	DiscountCode string
	CouponCode   string
	// FromCart 为 true 时以购物车为下单行（Lines 为空时），提交成功后清空购物车
	FromCart bool
	// AllowPriceOverride 仅运营代下单置为 true，否则行改价一律拒绝
	AllowPriceOverride bool
}

// OrderLinePreview 订单行试算结果
type OrderLinePreview struct {
	ProductID     uint          `json:"product_id"`
	VariantID     uint          `json:"variant_id,omitempty"`
	Quantity      int           `json:"quantity"`
	UnitPrice     models.Money  `json:"unit_price"`
	LineTotal     models.Money  `json:"line_total"`
	OverridePrice *models.Money `json:"override_price,omitempty"`

	stockOnVariant bool
}

// OrderPreview 订单试算结果
type OrderPreview struct {
	ShopID         uint                 `json:"shop_id"`
	Lines          []OrderLinePreview   `json:"lines"`
	OriginalPrice  models.Money         `json:"original_price"`
	DiscountAmount models.Money         `json:"discount_amount"`
	CouponAmount   models.Money         `json:"coupon_amount"`
	ShippingCost   models.Money         `json:"shipping_cost"`
	TotalPrice     models.Money         `json:"total_price"`
	Discount       *PromotionEvaluation `json:"discount,omitempty"`
	Coupon         *PromotionEvaluation `json:"coupon,omitempty"`
}

// StatusUpdateResult 状态更新结果；RevenueError 非空表示收入确认失败但状态已生效
type StatusUpdateResult struct {
	Order         *models.Order             `json:"order"`
	RevenueRecord *models.ShopRevenueRecord `json:"revenue_record,omitempty"`
	RevenueError  error                     `json:"-"`
}

// orderPlan 下单计算中间结果
type orderPlan struct {
	preview    *OrderPreview
	stockLines []StockLine
	fromCart   bool
}

// PreviewOrder 订单试算，不写入任何数据
func (s *OrderService) PreviewOrder(ctx context.Context, input CommitOrderInput) (*OrderPreview, error) {
	plan, err := s.buildOrderPlan(ctx, input, false)
	if err != nil {
		return nil, err
	}
	return plan.preview, nil
}

// CommitOrder 提交订单：计价、校验优惠、在同一事务内落单/记录优惠使用/扣减库存
func (s *OrderService) CommitOrder(ctx context.Context, input CommitOrderInput) (*models.Order, error) {
	plan, err := s.buildOrderPlan(ctx, input, true)
	if err != nil {
		metrics.OrderCommitFailedTotal.WithLabelValues(string(KindOf(err))).Inc()
		return nil, err
	}
	preview := plan.preview

	now := s.now()
	order := &models.Order{
		OrderNo:        generateOrderNo(),
		CustomerID:     input.CustomerID,
		ShopID:         preview.ShopID,
		AddressID:      input.AddressID,
		ShippingID:     input.ShippingID,
		PaymentID:      input.PaymentID,
		Status:         constants.OrderStatusPending,
		OriginalPrice:  preview.OriginalPrice,
		DiscountAmount: preview.DiscountAmount,
		CouponAmount:   preview.CouponAmount,
		ShippingCost:   preview.ShippingCost,
		TotalPrice:     preview.TotalPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if preview.Discount != nil {
		order.DiscountID = &preview.Discount.Rule.ID
		order.DiscountCode = preview.Discount.Rule.Code
	}
	if preview.Coupon != nil {
		order.CouponID = &preview.Coupon.Rule.ID
		order.CouponCode = preview.Coupon.Rule.Code
	}
	order.Lines = buildOrderLines(preview, now)

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}
		if preview.Discount != nil {
			if err := s.promotionService.RecordUsage(tx, constants.PromotionKindDiscount, preview.Discount.Rule, input.CustomerID); err != nil {
				return err
			}
		}
		if preview.Coupon != nil {
			if err := s.promotionService.RecordUsage(tx, constants.PromotionKindCoupon, preview.Coupon.Rule, input.CustomerID); err != nil {
				return err
			}
		}
		if err := s.inventoryService.Reserve(tx, plan.stockLines); err != nil {
			return err
		}
		if plan.fromCart && s.cartRepo != nil {
			if err := s.cartRepo.WithTx(tx).ClearByUser(input.CustomerID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.OrderCommitFailedTotal.WithLabelValues(string(KindOf(err))).Inc()
		logger.Warnw("order_commit_failed",
			"customer_id", input.CustomerID,
			"order_no", order.OrderNo,
			"error", err,
		)
		return nil, err
	}

	metrics.OrdersCommittedTotal.Inc()
	if preview.Discount != nil {
		metrics.PromotionAppliedTotal.WithLabelValues(string(constants.PromotionKindDiscount)).Inc()
	}
	if preview.Coupon != nil {
		metrics.PromotionAppliedTotal.WithLabelValues(string(constants.PromotionKindCoupon)).Inc()
	}
	s.scheduleExpireCancel(order)
	publishEvent(ctx, s.publisher, broker.NewEvent(constants.EventOrderCreated, broker.OrderKey(order.ID), map[string]interface{}{
		"order_id":    order.ID,
		"order_no":    order.OrderNo,
		"customer_id": order.CustomerID,
		"shop_id":     order.ShopID,
		"total_price": order.TotalPrice,
	}))

	full, err := s.orderRepo.GetByID(order.ID)
	if err == nil && full != nil {
		return full, nil
	}
	return order, nil
}

// CancelOrder 取消订单：状态条件更新成功后回补库存并回退优惠使用；已取消的订单原样返回
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	now := s.now()
	cancelled := false
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		rows, err := orderRepo.TransitionStatus(orderID, cancellableStatuses, constants.OrderStatusCancelled, now)
		if err != nil {
			return err
		}
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if rows == 0 {
			if order.Status == constants.OrderStatusCancelled {
				return nil
			}
			return ErrInvalidTransition
		}
		cancelled = true
		if err := s.inventoryService.Restore(tx, order.Lines); err != nil {
			return err
		}
		if order.DiscountID != nil {
			if err := s.promotionService.ReverseUsage(tx, constants.PromotionKindDiscount, *order.DiscountID, order.CustomerID); err != nil {
				return err
			}
		}
		if order.CouponID != nil {
			if err := s.promotionService.ReverseUsage(tx, constants.PromotionKindCoupon, *order.CouponID, order.CustomerID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if cancelled {
		metrics.OrdersCancelledTotal.Inc()
		metrics.OrderStatusTransitionsTotal.WithLabelValues(constants.OrderStatusCancelled).Inc()
		publishEvent(ctx, s.publisher, broker.NewEvent(constants.EventOrderCancelled, broker.OrderKey(order.ID), map[string]interface{}{
			"order_id": order.ID,
			"order_no": order.OrderNo,
			"shop_id":  order.ShopID,
		}))
	}
	return order, nil
}

// CancelOrderForCustomer 买家取消自己的订单
func (s *OrderService) CancelOrderForCustomer(ctx context.Context, orderID, customerID uint) (*models.Order, error) {
	if _, err := s.GetOrderForCustomer(orderID, customerID); err != nil {
		return nil, err
	}
	return s.CancelOrder(ctx, orderID)
}

// UpdateOrderStatus 管理端推进订单状态；送达时确认店铺收入，确认失败不回滚状态
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*StatusUpdateResult, error) {
	target, err := normalizeOrderStatus(status)
	if err != nil {
		return nil, err
	}
	if target == constants.OrderStatusCancelled {
		order, err := s.CancelOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return &StatusUpdateResult{Order: order}, nil
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == target {
		return &StatusUpdateResult{Order: order}, nil
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrInvalidTransition
	}
	prev, _ := previousStatus(target)
	rows, err := s.orderRepo.TransitionStatus(order.ID, []string{prev}, target, s.now())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidTransition
	}
	metrics.OrderStatusTransitionsTotal.WithLabelValues(target).Inc()
	publishEvent(ctx, s.publisher, broker.NewEvent(constants.EventOrderStatusChanged, broker.OrderKey(order.ID), map[string]interface{}{
		"order_id": order.ID,
		"from":     prev,
		"to":       target,
	}))

	result := &StatusUpdateResult{}
	if target == constants.OrderStatusDelivered {
		result.RevenueRecord, result.RevenueError = s.recognizeOnDelivery(ctx, order.ID)
	}

	updated, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	result.Order = updated
	return result, nil
}

// CancelExpiredPending 取消超时未处理的订单，返回取消数量
func (s *OrderService) CancelExpiredPending(ctx context.Context, now time.Time) (int, error) {
	if s.options.PendingExpireMinutes <= 0 {
		return 0, nil
	}
	before := now.Add(-time.Duration(s.options.PendingExpireMinutes) * time.Minute)
	orders, err := s.orderRepo.ListStatusBefore(constants.OrderStatusPending, before, 200)
	if err != nil {
		return 0, err
	}
	cancelledCount := 0
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return cancelledCount, err
		}
		if _, err := s.CancelOrder(ctx, order.ID); err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			logger.Warnw("order_expire_cancel_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", err,
			)
			continue
		}
		cancelledCount++
	}
	return cancelledCount, nil
}

// CancelIfExpired 队列回调：订单仍为待处理且已超时则取消
func (s *OrderService) CancelIfExpired(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil || order.Status != constants.OrderStatusPending {
		return nil
	}
	if s.options.PendingExpireMinutes <= 0 {
		return nil
	}
	deadline := order.CreatedAt.Add(time.Duration(s.options.PendingExpireMinutes) * time.Minute)
	if s.now().Before(deadline) {
		return nil
	}
	_, err = s.CancelOrder(ctx, orderID)
	if errors.Is(err, ErrInvalidTransition) {
		return nil
	}
	return err
}

func (s *OrderService) recognizeOnDelivery(ctx context.Context, orderID uint) (*models.ShopRevenueRecord, error) {
	if s.revenueService == nil {
		return nil, nil
	}
	record, err := s.revenueService.RecognizeOrder(ctx, orderID)
	if err == nil || errors.Is(err, ErrRevenueAlreadyRecorded) {
		return record, nil
	}
	metrics.RevenueRecognitionFailedTotal.Inc()
	logger.Warnw("order_revenue_recognition_failed",
		"order_id", orderID,
		"error", err,
	)
	if s.taskQueue != nil {
		if enqueueErr := s.taskQueue.EnqueueOrderRevenueRecognize(queue.OrderRevenueRecognizePayload{
			OrderID: orderID,
			Reason:  err.Error(),
		}); enqueueErr != nil {
			logger.Errorw("order_enqueue_revenue_recognize_failed",
				"order_id", orderID,
				"error", enqueueErr,
			)
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrRevenueRecognitionFailed, err)
}

func (s *OrderService) scheduleExpireCancel(order *models.Order) {
	if s.taskQueue == nil || s.options.PendingExpireMinutes <= 0 {
		return
	}
	delay := time.Duration(s.options.PendingExpireMinutes) * time.Minute
	if err := s.taskQueue.EnqueueOrderExpireCancel(queue.OrderExpireCancelPayload{OrderID: order.ID}, delay); err != nil {
		logger.Warnw("order_enqueue_expire_cancel_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}

func (s *OrderService) buildOrderPlan(ctx context.Context, input CommitOrderInput, commit bool) (*orderPlan, error) {
	if input.CustomerID == 0 {
		return nil, ErrInvalidCustomer
	}
	if !input.AllowPriceOverride && hasPriceOverride(input.Lines) {
		return nil, ErrPriceOverrideDenied
	}
	rawLines := input.Lines
	fromCart := false
	if input.FromCart && len(rawLines) == 0 && s.cartRepo != nil {
		items, err := s.cartRepo.ListByUser(input.CustomerID)
		if err != nil {
			return nil, err
		}
		rawLines = cartItemsToLines(items)
		fromCart = true
	}
	lines, err := mergeCartLines(rawLines)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if s.options.MaxLinesPerOrder > 0 && len(lines) > s.options.MaxLinesPerOrder {
		return nil, ErrTooManyLines
	}

	preview := &OrderPreview{
		Lines:          make([]OrderLinePreview, 0, len(lines)),
		OriginalPrice:  models.ZeroMoney(),
		DiscountAmount: models.ZeroMoney(),
		CouponAmount:   models.ZeroMoney(),
		ShippingCost:   models.ZeroMoney(),
	}
	promotionLines := make([]PromotionLine, 0, len(lines))
	stockLines := make([]StockLine, 0, len(lines))
	demand := make(map[string]int)
	available := make(map[string]int)

	for _, line := range lines {
		product, variant, err := s.loadCatalogLine(ctx, line, !commit)
		if err != nil {
			return nil, err
		}
		if preview.ShopID == 0 {
			preview.ShopID = product.ShopID
		} else if preview.ShopID != product.ShopID {
			return nil, ErrMixedShopOrder
		}

		unit, total, err := ResolveLinePrice(product, variant, line.OverridePrice, line.Quantity)
		if err != nil {
			return nil, err
		}
		if err := CheckAvailability(product, variant, line.Quantity); err != nil {
			return nil, err
		}

		stockLine := StockLine{
			ProductID:    product.ID,
			VariantID:    line.VariantID,
			VariantStock: usesVariantStock(variant),
			Quantity:     line.Quantity,
		}
		key := stockKey(stockLine)
		demand[key] += line.Quantity
		available[key] = GoverningStock(product, variant)
		if demand[key] > available[key] {
			return nil, &StockError{
				ProductID: product.ID,
				VariantID: line.VariantID,
				Requested: demand[key],
				Available: available[key],
			}
		}
		stockLines = append(stockLines, stockLine)

		preview.Lines = append(preview.Lines, OrderLinePreview{
			ProductID:      product.ID,
			VariantID:      line.VariantID,
			Quantity:       line.Quantity,
			UnitPrice:      unit,
			LineTotal:      total,
			OverridePrice:  line.OverridePrice,
			stockOnVariant: stockLine.VariantStock,
		})
		preview.OriginalPrice = preview.OriginalPrice.Add(total)
		promotionLines = append(promotionLines, PromotionLine{
			ProductID:   product.ID,
			ShopID:      product.ShopID,
			CategoryIDs: product.CategoryIDs(),
			LineTotal:   total,
		})
	}

	if err := s.checkShop(preview.ShopID); err != nil {
		return nil, err
	}

	oc := OrderContext{
		UserID:   input.CustomerID,
		Subtotal: preview.OriginalPrice,
		Lines:    promotionLines,
	}
	if code := strings.TrimSpace(input.DiscountCode); code != "" {
		evaluation, err := s.promotionService.EvaluatePromotion(code, constants.PromotionKindDiscount, oc)
		if err != nil {
			return nil, err
		}
		preview.Discount = evaluation
		preview.DiscountAmount = evaluation.Amount
	}
	if code := strings.TrimSpace(input.CouponCode); code != "" {
		evaluation, err := s.promotionService.EvaluatePromotion(code, constants.PromotionKindCoupon, oc)
		if err != nil {
			return nil, err
		}
		preview.Coupon = evaluation
		preview.CouponAmount = evaluation.Amount
	}

	if commit || input.ShippingID != 0 {
		shipping, err := s.loadShipping(input.ShippingID)
		if err != nil {
			return nil, err
		}
		preview.ShippingCost = shipping.Cost
	}
	if commit || input.AddressID != 0 {
		if err := s.checkAddress(input.AddressID, input.CustomerID); err != nil {
			return nil, err
		}
	}
	if commit || input.PaymentID != 0 {
		if err := s.checkPaymentMethod(input.PaymentID); err != nil {
			return nil, err
		}
	}

	preview.TotalPrice = computeOrderTotal(preview.OriginalPrice, preview.DiscountAmount, preview.CouponAmount, preview.ShippingCost)
	return &orderPlan{
		preview:    preview,
		stockLines: stockLines,
		fromCart:   fromCart,
	}, nil
}

func (s *OrderService) loadCatalogLine(ctx context.Context, line CartLine, useCache bool) (*models.Product, *models.ProductVariant, error) {
	product, err := s.loadProduct(ctx, line.ProductID, useCache)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, nil, ErrProductUnavailable
	}
	if line.VariantID == 0 {
		return product, nil, nil
	}
	variant, err := s.loadVariant(ctx, line.VariantID, useCache)
	if err != nil {
		return nil, nil, err
	}
	if variant == nil {
		return nil, nil, ErrVariantNotFound
	}
	if variant.ProductID != product.ID {
		return nil, nil, ErrVariantMismatch
	}
	return product, variant, nil
}

// loadProduct 读取商品；试算路径可命中 Redis 快照，提交路径始终读库
func (s *OrderService) loadProduct(ctx context.Context, id uint, useCache bool) (*models.Product, error) {
	key := fmt.Sprintf("catalog:product:%d", id)
	if useCache && s.options.CatalogTTL > 0 {
		var cached models.Product
		if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil || product == nil {
		return product, err
	}
	if s.options.CatalogTTL > 0 {
		if err := cache.SetJSON(ctx, key, product, s.options.CatalogTTL); err != nil {
			logger.Debugw("catalog_cache_set_failed", "key", key, "error", err)
		}
	}
	return product, nil
}

func (s *OrderService) loadVariant(ctx context.Context, id uint, useCache bool) (*models.ProductVariant, error) {
	key := fmt.Sprintf("catalog:variant:%d", id)
	if useCache && s.options.CatalogTTL > 0 {
		var cached models.ProductVariant
		if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}
	variant, err := s.variantRepo.GetByID(id)
	if err != nil || variant == nil {
		return variant, err
	}
	if s.options.CatalogTTL > 0 {
		if err := cache.SetJSON(ctx, key, variant, s.options.CatalogTTL); err != nil {
			logger.Debugw("catalog_cache_set_failed", "key", key, "error", err)
		}
	}
	return variant, nil
}

func (s *OrderService) checkShop(shopID uint) error {
	if s.checkoutRepo == nil {
		return nil
	}
	shop, err := s.checkoutRepo.GetShop(shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return ErrShopNotFound
	}
	if !shop.IsActive {
		return ErrProductUnavailable
	}
	return nil
}

func (s *OrderService) loadShipping(id uint) (*models.ShippingMethod, error) {
	if id == 0 {
		return nil, ErrShippingNotFound
	}
	shipping, err := s.checkoutRepo.GetShippingMethod(id)
	if err != nil {
		return nil, err
	}
	if shipping == nil {
		return nil, ErrShippingNotFound
	}
	if !shipping.IsActive {
		return nil, ErrShippingUnavailable
	}
	return shipping, nil
}

func (s *OrderService) checkAddress(id, customerID uint) error {
	if id == 0 {
		return ErrAddressNotFound
	}
	address, err := s.checkoutRepo.GetAddress(id)
	if err != nil {
		return err
	}
	if address == nil || address.UserID != customerID {
		return ErrAddressNotFound
	}
	return nil
}

func (s *OrderService) checkPaymentMethod(id uint) error {
	if id == 0 {
		return ErrPaymentMethodNotFound
	}
	method, err := s.checkoutRepo.GetPaymentMethod(id)
	if err != nil {
		return err
	}
	if method == nil {
		return ErrPaymentMethodNotFound
	}
	if !method.IsActive {
		return ErrPaymentUnavailable
	}
	return nil
}

// computeOrderTotal 实付 = max(0, 原价 - 折扣 - 优惠券) + 运费
func computeOrderTotal(original, discount, coupon, shipping models.Money) models.Money {
	return original.Sub(discount).Sub(coupon).FloorZero().Add(shipping)
}

func buildOrderLines(preview *OrderPreview, now time.Time) []models.OrderLine {
	ref := ""
	if preview.Coupon != nil {
		ref = preview.Coupon.Rule.Code
	} else if preview.Discount != nil {
		ref = preview.Discount.Rule.Code
	}
	lines := make([]models.OrderLine, 0, len(preview.Lines))
	for _, line := range preview.Lines {
		orderLine := models.OrderLine{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			LineTotal:      line.LineTotal,
			OverridePrice:  line.OverridePrice,
			StockOnVariant: line.stockOnVariant,
			DiscountRef:    ref,
			CreatedAt:      now,
		}
		if line.VariantID != 0 {
			variantID := line.VariantID
			orderLine.VariantID = &variantID
		}
		lines = append(lines, orderLine)
	}
	return lines
}

// mergeCartLines 合并相同商品/规格/改价的下单行
func mergeCartLines(lines []CartLine) ([]CartLine, error) {
	merged := make([]CartLine, 0, len(lines))
	indexMap := make(map[string]int)
	for _, line := range lines {
		if line.ProductID == 0 {
			return nil, ErrProductNotFound
		}
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		key := fmt.Sprintf("%d:%d:%s", line.ProductID, line.VariantID, overrideKey(line.OverridePrice))
		if idx, ok := indexMap[key]; ok {
			merged[idx].Quantity += line.Quantity
			continue
		}
		indexMap[key] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

func overrideKey(price *models.Money) string {
	if price == nil {
		return "-"
	}
	return price.String()
}

func stockKey(line StockLine) string {
	if line.VariantStock {
		return fmt.Sprintf("v:%d", line.VariantID)
	}
	return fmt.Sprintf("p:%d", line.ProductID)
}

func cartItemsToLines(items []models.CartItem) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func hasPriceOverride(lines []CartLine) bool {
	for _, line := range lines {
		if line.OverridePrice != nil {
			return true
		}
	}
	return false
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("MK%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
