package public

import (
	handlershared "github.com/marketplace-next/internal/http/handlers/shared"
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedError

var orderInputErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidCustomer, Code: response.CodeBadRequest, Key: "error.customer_invalid"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: service.ErrInvalidPrice, Code: response.CodeBadRequest, Key: "error.price_invalid"},
	{Target: service.ErrPriceOverrideDenied, Code: response.CodeForbidden, Key: "error.price_override_denied"},
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
}

var promotionErrorRules = []mappedHandlerError{
	{Target: service.ErrPromotionNotFound, Code: response.CodeBadRequest, Key: "error.promotion_not_found"},
	{Target: service.ErrPromotionExpired, Code: response.CodeBadRequest, Key: "error.promotion_expired"},
	{Target: service.ErrPromotionMinOrderNotMet, Code: response.CodeBadRequest, Key: "error.promotion_min_order"},
	{Target: service.ErrPromotionUsageLimit, Code: response.CodeConflict, Key: "error.promotion_usage_limit"},
	{Target: service.ErrPromotionScopeMismatch, Code: response.CodeBadRequest, Key: "error.promotion_scope_mismatch"},
	{Target: service.ErrInvalidPromotionKind, Code: response.CodeBadRequest, Key: "error.promotion_kind_invalid"},
}

var orderStateErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrInvalidTransition, Code: response.CodeConflict, Key: "error.order_transition_invalid"},
	{Target: service.ErrInvalidStatus, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
}

var cartErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidCustomer, Code: response.CodeBadRequest, Key: "error.customer_invalid"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductUnavailable, Code: response.CodeBadRequest, Key: "error.product_unavailable"},
	{Target: service.ErrVariantNotFound, Code: response.CodeNotFound, Key: "error.variant_not_found"},
	{Target: service.ErrVariantMismatch, Code: response.CodeBadRequest, Key: "error.variant_mismatch"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
}

func respondOrderCreateError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.ConcatMappedErrors(orderInputErrorRules, promotionErrorRules), response.CodeInternal, "error.order_create_failed")
}

func respondOrderStateError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, orderStateErrorRules, response.CodeInternal, "error.order_update_failed")
}

func respondOrderQueryError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, orderStateErrorRules, response.CodeInternal, "error.order_fetch_failed")
}

func respondCartError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_failed")
}
