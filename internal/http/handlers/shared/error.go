package shared

import (
	"errors"

	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := response.WrapError(code, Message(key), err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// MappedError 业务错误到接口错误响应的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMappedError 按映射表返回业务错误，未命中时按兜底错误处理
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			if detail := ErrorDetail(err); detail != nil {
				response.ErrorWithData(c, rule.Code, Message(rule.Key), detail)
				return
			}
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// ErrorDetail 提取库存与优惠错误的上下文
func ErrorDetail(err error) gin.H {
	var stockErr *service.StockError
	if errors.As(err, &stockErr) {
		return gin.H{
			"kind":       string(service.KindOf(err)),
			"product_id": stockErr.ProductID,
			"variant_id": stockErr.VariantID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		}
	}
	var promoErr *service.PromotionError
	if errors.As(err, &promoErr) {
		detail := gin.H{
			"kind":           string(service.KindOf(err)),
			"promotion_kind": string(promoErr.Kind),
			"code":           promoErr.Code,
		}
		switch {
		case errors.Is(err, service.ErrPromotionUsageLimit):
			detail["current_usage"] = promoErr.CurrentUsage
			detail["limit"] = promoErr.Limit
		case errors.Is(err, service.ErrPromotionMinOrderNotMet):
			detail["min_order_value"] = promoErr.MinOrderValue
			detail["subtotal"] = promoErr.Subtotal
		}
		return detail
	}
	return nil
}
