package public

import (
	"strings"

	handlershared "github.com/marketplace-next/internal/http/handlers/shared"
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/repository"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderLineRequest 订单行请求，成交价按商品/规格价计算
type OrderLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CommitOrderRequest 下单请求
type CommitOrderRequest struct {
	Lines        []OrderLineRequest `json:"lines"`
	FromCart     bool               `json:"from_cart"`
	AddressID    uint               `json:"address_id"`
	ShippingID   uint               `json:"shipping_id"`
	PaymentID    uint               `json:"payment_id"`
	DiscountCode string             `json:"discount_code"`
	CouponCode   string             `json:"coupon_code"`
}

func (req CommitOrderRequest) toInput(customerID uint) service.CommitOrderInput {
	lines := make([]service.CartLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, service.CartLine{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		})
	}
	return service.CommitOrderInput{
		CustomerID:   customerID,
		Lines:        lines,
		FromCart:     req.FromCart,
		AddressID:    req.AddressID,
		ShippingID:   req.ShippingID,
		PaymentID:    req.PaymentID,
		DiscountCode: strings.TrimSpace(req.DiscountCode),
		CouponCode:   strings.TrimSpace(req.CouponCode),
	}
}

// PreviewOrder 订单金额预览
func (h *Handler) PreviewOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CommitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	preview, err := h.OrderService.PreviewOrder(c.Request.Context(), req.toInput(uid))
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, preview)
}

// CommitOrder 提交订单
func (h *Handler) CommitOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CommitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.CommitOrder(c.Request.Context(), req.toInput(uid))
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 买家取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrderForCustomer(c.Request.Context(), orderID, uid)
	if err != nil {
		respondOrderStateError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderForCustomer(orderID, uid)
	if err != nil {
		respondOrderQueryError(c, err)
		return
	}
	response.Success(c, order)
}

// OrderListQuery 订单列表查询参数
type OrderListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
}

// ListOrders 获取我的订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var query OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)
	orders, total, err := h.OrderService.ListOrdersForCustomer(repository.OrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: uid,
		Status:     query.Status,
	})
	if err != nil {
		respondOrderQueryError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}
