package admin

import (
	handlershared "github.com/marketplace-next/internal/http/handlers/shared"
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mappedHandlerError = handlershared.MappedError

var orderStatusErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrInvalidStatus, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrInvalidTransition, Code: response.CodeConflict, Key: "error.order_transition_invalid"},
}

var orderCreateErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidCustomer, Code: response.CodeBadRequest, Key: "error.customer_invalid"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: service.ErrInvalidPrice, Code: response.CodeBadRequest, Key: "error.price_invalid"},
	{Target: service.ErrEmptyOrder, Code: response.CodeBadRequest, Key: "error.order_empty"},
	{Target: service.ErrTooManyLines, Code: response.CodeBadRequest, Key: "error.order_too_many_lines"},
	{Target: service.ErrMixedShopOrder, Code: response.CodeBadRequest, Key: "error.order_mixed_shop"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductUnavailable, Code: response.CodeBadRequest, Key: "error.product_unavailable"},
	{Target: service.ErrVariantNotFound, Code: response.CodeNotFound, Key: "error.variant_not_found"},
	{Target: service.ErrVariantMismatch, Code: response.CodeBadRequest, Key: "error.variant_mismatch"},
	{Target: service.ErrShopNotFound, Code: response.CodeBadRequest, Key: "error.shop_not_found"},
	{Target: service.ErrOutOfStock, Code: response.CodeConflict, Key: "error.out_of_stock"},
	{Target: service.ErrShippingNotFound, Code: response.CodeBadRequest, Key: "error.shipping_not_found"},
	{Target: service.ErrShippingUnavailable, Code: response.CodeBadRequest, Key: "error.shipping_unavailable"},
	{Target: service.ErrAddressNotFound, Code: response.CodeBadRequest, Key: "error.address_not_found"},
	{Target: service.ErrPaymentMethodNotFound, Code: response.CodeBadRequest, Key: "error.payment_method_not_found"},
	{Target: service.ErrPaymentUnavailable, Code: response.CodeBadRequest, Key: "error.payment_method_unavailable"},
	{Target: service.ErrPromotionNotFound, Code: response.CodeBadRequest, Key: "error.promotion_not_found"},
	{Target: service.ErrPromotionExpired, Code: response.CodeBadRequest, Key: "error.promotion_expired"},
	{Target: service.ErrPromotionMinOrderNotMet, Code: response.CodeBadRequest, Key: "error.promotion_min_order"},
	{Target: service.ErrPromotionUsageLimit, Code: response.CodeConflict, Key: "error.promotion_usage_limit"},
	{Target: service.ErrPromotionScopeMismatch, Code: response.CodeBadRequest, Key: "error.promotion_scope_mismatch"},
}

var revenueErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderNotDelivered, Code: response.CodeConflict, Key: "error.order_not_delivered"},
	{Target: service.ErrRevenueAlreadyRecorded, Code: response.CodeConflict, Key: "error.revenue_recorded"},
}

var batchErrorRules = []mappedHandlerError{
	{Target: service.ErrNoUnpaidRecords, Code: response.CodeConflict, Key: "error.batch_no_unpaid"},
	{Target: service.ErrBatchNotFound, Code: response.CodeNotFound, Key: "error.batch_not_found"},
	{Target: service.ErrBatchAlreadyCompleted, Code: response.CodeConflict, Key: "error.batch_completed"},
	{Target: service.ErrInvalidBatchReference, Code: response.CodeBadRequest, Key: "error.batch_reference_invalid"},
}

var promotionAdminErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidPromotionKind, Code: response.CodeBadRequest, Key: "error.promotion_kind_invalid"},
	{Target: service.ErrInvalidPromotionCode, Code: response.CodeBadRequest, Key: "error.promotion_code_invalid"},
	{Target: service.ErrInvalidPrice, Code: response.CodeBadRequest, Key: "error.price_invalid"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: service.ErrPromotionExpired, Code: response.CodeBadRequest, Key: "error.promotion_expired"},
	{Target: service.ErrPromotionNotFound, Code: response.CodeNotFound, Key: "error.promotion_not_found"},
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal, fallbackKey)
}
