package admin

import (
	"strings"

	handlershared "github.com/marketplace-next/internal/http/handlers/shared"
	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreatePromotionRequest 创建折扣或优惠券请求
type CreatePromotionRequest struct {
	Code             string `json:"code" binding:"required"`
	Type             string `json:"type" binding:"required"`
	Value            string `json:"value" binding:"required"`
	MinOrderValue    string `json:"min_order_value"`
	MaxDiscountValue string `json:"max_discount_value"`
	MaxUses          int    `json:"max_uses"`
	MaxUsesPerUser   int    `json:"max_uses_per_user"`
	ProductID        uint   `json:"product_id"`
	CategoryID       uint   `json:"category_id"`
	ShopID           uint   `json:"shop_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
}

func parseMoney(raw string) (models.Money, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.ZeroMoney(), nil
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return models.Money{}, service.ErrInvalidPrice
	}
	return models.NewMoneyFromDecimal(amount), nil
}

func (req CreatePromotionRequest) toRule() (*models.PromotionRule, error) {
	value, err := parseMoney(req.Value)
	if err != nil {
		return nil, err
	}
	minOrder, err := parseMoney(req.MinOrderValue)
	if err != nil {
		return nil, err
	}
	maxDiscount, err := parseMoney(req.MaxDiscountValue)
	if err != nil {
		return nil, err
	}
	startDate, err := parseTimeNullable(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseTimeNullable(req.EndDate)
	if err != nil {
		return nil, err
	}
	return &models.PromotionRule{
		Code:             req.Code,
		Type:             strings.ToLower(strings.TrimSpace(req.Type)),
		Value:            value,
		MinOrderValue:    minOrder,
		MaxDiscountValue: maxDiscount,
		MaxUses:          req.MaxUses,
		MaxUsesPerUser:   req.MaxUsesPerUser,
		ProductID:        req.ProductID,
		CategoryID:       req.CategoryID,
		ShopID:           req.ShopID,
		StartDate:        startDate,
		EndDate:          endDate,
		IsActive:         true,
	}, nil
}

func promotionKindParam(c *gin.Context) constants.PromotionKind {
	return constants.PromotionKind(strings.ToLower(strings.TrimSpace(c.Param("kind"))))
}

// CreatePromotion 创建折扣（discounts）或优惠券（coupons）
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	rule, err := req.toRule()
	if err != nil {
		respondMappedError(c, err, promotionAdminErrorRules, "error.bad_request")
		return
	}
	if err := h.PromotionService.CreatePromotion(promotionKindParam(c), rule); err != nil {
		respondMappedError(c, err, promotionAdminErrorRules, "error.promotion_create_failed")
		return
	}
	response.Success(c, rule)
}

// GetPromotionUsage 查询优惠的按用户使用记录
func (h *Handler) GetPromotionUsage(c *gin.Context) {
	promotionID, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	history, err := h.PromotionService.UsageHistory(promotionKindParam(c), promotionID)
	if err != nil {
		respondMappedError(c, err, promotionAdminErrorRules, "error.promotion_fetch_failed")
		return
	}
	response.Success(c, gin.H{"usage": history})
}
