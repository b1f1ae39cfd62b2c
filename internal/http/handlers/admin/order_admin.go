package admin

import (
	"strings"

	handlershared "github.com/marketplace-next/internal/http/handlers/shared"
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminOrderLineRequest 代下单订单行，override_price 为运营改价
type AdminOrderLineRequest struct {
	ProductID     uint    `json:"product_id" binding:"required"`
	VariantID     uint    `json:"variant_id"`
	Quantity      int     `json:"quantity" binding:"required"`
	OverridePrice *string `json:"override_price"`
}

// AdminCommitOrderRequest 运营代客户下单请求
type AdminCommitOrderRequest struct {
	CustomerID   uint                    `json:"customer_id" binding:"required"`
	Lines        []AdminOrderLineRequest `json:"lines" binding:"required"`
	AddressID    uint                    `json:"address_id"`
	ShippingID   uint                    `json:"shipping_id"`
	PaymentID    uint                    `json:"payment_id"`
	DiscountCode string                  `json:"discount_code"`
	CouponCode   string                  `json:"coupon_code"`
}

func (req AdminCommitOrderRequest) toInput() (service.CommitOrderInput, int, error) {
	lines := make([]service.CartLine, 0, len(req.Lines))
	overrides := 0
	for _, line := range req.Lines {
		item := service.CartLine{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		}
		if line.OverridePrice != nil {
			amount, err := decimal.NewFromString(strings.TrimSpace(*line.OverridePrice))
			if err != nil {
				return service.CommitOrderInput{}, 0, service.ErrInvalidPrice
			}
			price := models.NewMoneyFromDecimal(amount)
			item.OverridePrice = &price
			overrides++
		}
		lines = append(lines, item)
	}
	return service.CommitOrderInput{
		CustomerID:         req.CustomerID,
		Lines:              lines,
		AddressID:          req.AddressID,
		ShippingID:         req.ShippingID,
		PaymentID:          req.PaymentID,
		DiscountCode:       strings.TrimSpace(req.DiscountCode),
		CouponCode:         strings.TrimSpace(req.CouponCode),
		AllowPriceOverride: true,
	}, overrides, nil
}

// AdminCommitOrder 运营代客户下单，可按行改价
func (h *Handler) AdminCommitOrder(c *gin.Context) {
	var req AdminCommitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, overrides, err := req.toInput()
	if err != nil {
		respondMappedError(c, err, orderCreateErrorRules, "error.order_create_failed")
		return
	}
	order, err := h.OrderService.CommitOrder(c.Request.Context(), input)
	if err != nil {
		respondMappedError(c, err, orderCreateErrorRules, "error.order_create_failed")
		return
	}
	if overrides > 0 {
		requestLog(c).Infow("admin_order_price_overridden",
			"order_id", order.ID,
			"customer_id", order.CustomerID,
			"operator_id", getOperatorID(c),
			"override_lines", overrides,
		)
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatusRequest 管理端更新订单状态请求
type AdminUpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminGetOrder 管理端获取订单
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		respondMappedError(c, err, orderStatusErrorRules, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatus 管理端推进订单状态
// 送达时收入入账失败不影响状态更新，失败原因随响应返回
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var req AdminUpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.OrderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondMappedError(c, err, orderStatusErrorRules, "error.order_update_failed")
		return
	}

	payload := gin.H{
		"order":          result.Order,
		"revenue_record": result.RevenueRecord,
	}
	if result.RevenueError != nil {
		operatorID := getOperatorID(c)
		requestLog(c).Warnw("admin_order_delivered_revenue_pending",
			"order_id", orderID,
			"operator_id", operatorID,
			"error", result.RevenueError,
		)
		payload["revenue_error"] = result.RevenueError.Error()
	}
	response.Success(c, payload)
}
