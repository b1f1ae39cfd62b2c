package public

import (
	"strings"

	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
)

// EvaluatePromotionRequest 优惠试用请求
type EvaluatePromotionRequest struct {
	Kind  string             `json:"kind" binding:"required"`
	Code  string             `json:"code" binding:"required"`
	Lines []OrderLineRequest `json:"lines"`
	// FromCart 为 true 且未传 lines 时按购物车校验
	FromCart bool `json:"from_cart"`
}

// EvaluatePromotion 校验优惠码并返回可抵扣金额，不记录使用
func (h *Handler) EvaluatePromotion(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req EvaluatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	orderReq := CommitOrderRequest{Lines: req.Lines, FromCart: req.FromCart}
	kind := constants.PromotionKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	switch kind {
	case constants.PromotionKindDiscount:
		orderReq.DiscountCode = req.Code
	case constants.PromotionKindCoupon:
		orderReq.CouponCode = req.Code
	default:
		respondOrderCreateError(c, service.ErrInvalidPromotionKind)
		return
	}
	preview, err := h.OrderService.PreviewOrder(c.Request.Context(), orderReq.toInput(uid))
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	evaluation := preview.Discount
	if kind == constants.PromotionKindCoupon {
		evaluation = preview.Coupon
	}
	response.Success(c, gin.H{
		"evaluation":     evaluation,
		"original_price": preview.OriginalPrice,
	})
}
