package shared

var messages = map[string]string{
	"error.bad_request":                "invalid request",
	"error.unauthorized":               "unauthorized",
	"error.forbidden":                  "forbidden",
	"error.user_id_invalid":            "invalid user id",
	"error.user_id_type_invalid":       "invalid user id type",
	"error.id_invalid":                 "invalid id",
	"error.quantity_invalid":           "quantity must be at least 1",
	"error.customer_invalid":           "customer is required",
	"error.price_invalid":              "invalid price",
	"error.price_override_denied":      "line price override is not allowed",
	"error.order_empty":                "order has no lines",
	"error.order_too_many_lines":       "order has too many lines",
	"error.order_mixed_shop":           "all lines must come from the same shop",
	"error.order_status_invalid":       "invalid order status",
	"error.order_transition_invalid":   "order status cannot change this way",
	"error.order_not_found":            "order not found",
	"error.order_not_delivered":        "order is not delivered",
	"error.order_create_failed":        "failed to create order",
	"error.order_update_failed":        "failed to update order",
	"error.order_fetch_failed":         "failed to load order",
	"error.product_not_found":          "product not found",
	"error.product_unavailable":        "product is not available",
	"error.variant_not_found":          "variant not found",
	"error.variant_mismatch":           "variant does not belong to product",
	"error.shop_not_found":             "shop not found",
	"error.out_of_stock":               "insufficient stock",
	"error.shipping_not_found":         "shipping method not found",
	"error.shipping_unavailable":       "shipping method is not available",
	"error.address_not_found":          "address not found",
	"error.payment_method_not_found":   "payment method not found",
	"error.payment_method_unavailable": "payment method is not available",
	"error.cart_item_not_found":        "cart item not found",
	"error.cart_failed":                "failed to update cart",
	"error.promotion_not_found":        "promotion code not found",
	"error.promotion_expired":          "promotion is not active at this time",
	"error.promotion_min_order":        "order does not meet the promotion minimum",
	"error.promotion_usage_limit":      "promotion usage limit reached",
	"error.promotion_scope_mismatch":   "promotion does not apply to these items",
	"error.promotion_kind_invalid":     "invalid promotion kind",
	"error.promotion_code_invalid":     "promotion code is required",
	"error.promotion_create_failed":    "failed to create promotion",
	"error.promotion_fetch_failed":     "failed to load promotion usage",
	"error.revenue_recorded":           "revenue already recorded for this order",
	"error.revenue_failed":             "failed to record revenue",
	"error.batch_not_found":            "payment batch not found",
	"error.batch_completed":            "payment batch already completed",
	"error.batch_reference_invalid":    "payment reference is required",
	"error.batch_no_unpaid":            "no unpaid revenue records before cutoff",
	"error.batch_failed":               "failed to process payment batch",
	"error.rate_limited":               "too many requests, retry in %d seconds",
	"error.rate_limit_unavailable":     "rate limiter unavailable",
	"error.jwt_secret_missing":         "authentication is not configured",
	"error.auth_header_missing":        "missing authorization header",
	"error.auth_header_invalid":        "invalid authorization header",
	"error.token_invalid":              "invalid token",
	"error.internal":                   "internal error",
}

// Message 根据错误键获取提示文案，未登记时返回键本身
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
