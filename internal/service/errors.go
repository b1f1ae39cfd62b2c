package service

import (
	"errors"
	"fmt"

	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/models"
)

// ErrorKind 错误大类，供调用方区分处理
type ErrorKind string

const (
	KindUnknown            ErrorKind = "unknown"
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindState              ErrorKind = "state"
	KindLimitExceeded      ErrorKind = "limit_exceeded"
	KindScopeMismatch      ErrorKind = "scope_mismatch"
	KindAlreadyRecorded    ErrorKind = "already_recorded"
	KindExternalDependency ErrorKind = "external_dependency"
)

// 参数校验类错误
var (
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInvalidCustomer       = errors.New("invalid customer")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrEmptyOrder            = errors.New("order has no lines")
	ErrTooManyLines          = errors.New("order has too many lines")
	ErrMixedShopOrder        = errors.New("order lines belong to different shops")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrInvalidPromotionKind  = errors.New("invalid promotion kind")
	ErrInvalidPromotionCode  = errors.New("invalid promotion code")
	ErrInvalidBatchReference = errors.New("invalid payment reference")
	ErrVariantMismatch       = errors.New("variant does not belong to product")
	ErrProductUnavailable    = errors.New("product is not available")
	ErrShippingUnavailable   = errors.New("shipping method is not available")
	ErrPaymentUnavailable    = errors.New("payment method is not available")
	ErrPriceOverrideDenied   = errors.New("line price override is not allowed")
)

// 资源不存在类错误
var (
	ErrProductNotFound       = errors.New("product not found")
	ErrVariantNotFound       = errors.New("variant not found")
	ErrShopNotFound          = errors.New("shop not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPromotionNotFound     = errors.New("promotion not found")
	ErrShippingNotFound      = errors.New("shipping method not found")
	ErrAddressNotFound       = errors.New("address not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrBatchNotFound         = errors.New("payment batch not found")
	ErrCartItemNotFound      = errors.New("cart item not found")
)

// 状态类错误
var (
	ErrInvalidTransition     = errors.New("invalid order status transition")
	ErrBatchAlreadyCompleted = errors.New("payment batch already completed")
	ErrOrderNotDelivered     = errors.New("order is not delivered")
	ErrNoUnpaidRecords       = errors.New("no unpaid revenue records")
)

// 优惠与库存类错误
var (
	ErrOutOfStock              = errors.New("out of stock")
	ErrPromotionExpired        = errors.New("promotion expired")
	ErrPromotionMinOrderNotMet = errors.New("promotion minimum order value not met")
	ErrPromotionUsageLimit     = errors.New("promotion usage limit exceeded")
)

// 其他错误
var (
	ErrPromotionScopeMismatch   = errors.New("promotion scope mismatch")
	ErrRevenueAlreadyRecorded   = errors.New("revenue already recorded")
	ErrRevenueRecognitionFailed = errors.New("revenue recognition failed")
)

var errorKinds = map[error]ErrorKind{
	ErrInvalidQuantity:          KindValidation,
	ErrInvalidCustomer:          KindValidation,
	ErrInvalidPrice:             KindValidation,
	ErrEmptyOrder:               KindValidation,
	ErrTooManyLines:             KindValidation,
	ErrMixedShopOrder:           KindValidation,
	ErrInvalidStatus:            KindValidation,
	ErrInvalidPromotionKind:     KindValidation,
	ErrInvalidPromotionCode:     KindValidation,
	ErrInvalidBatchReference:    KindValidation,
	ErrVariantMismatch:          KindValidation,
	ErrProductUnavailable:       KindValidation,
	ErrShippingUnavailable:      KindValidation,
	ErrPaymentUnavailable:       KindValidation,
	ErrPriceOverrideDenied:      KindValidation,
	ErrProductNotFound:          KindNotFound,
	ErrVariantNotFound:          KindNotFound,
	ErrShopNotFound:             KindNotFound,
	ErrOrderNotFound:            KindNotFound,
	ErrPromotionNotFound:        KindNotFound,
	ErrShippingNotFound:         KindNotFound,
	ErrAddressNotFound:          KindNotFound,
	ErrPaymentMethodNotFound:    KindNotFound,
	ErrBatchNotFound:            KindNotFound,
	ErrCartItemNotFound:         KindNotFound,
	ErrInvalidTransition:        KindState,
	ErrBatchAlreadyCompleted:    KindState,
	ErrOrderNotDelivered:        KindState,
	ErrOutOfStock:               KindLimitExceeded,
	ErrPromotionExpired:         KindState,
	ErrPromotionMinOrderNotMet:  KindValidation,
	ErrPromotionUsageLimit:      KindLimitExceeded,
	ErrPromotionScopeMismatch:   KindScopeMismatch,
	ErrRevenueAlreadyRecorded:   KindAlreadyRecorded,
	ErrRevenueRecognitionFailed: KindExternalDependency,
	ErrNoUnpaidRecords:          KindState,
}

// KindOf 解析错误所属大类
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for target, kind := range errorKinds {
		if errors.Is(err, target) {
			return kind
		}
	}
	return KindUnknown
}

// PromotionError 优惠校验失败，携带渲染提示所需的上下文
type PromotionError struct {
	Err           error
	Kind          constants.PromotionKind
	Code          string
	CurrentUsage  int
	Limit         int
	MinOrderValue models.Money
	Subtotal      models.Money
}

func (e *PromotionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrPromotionUsageLimit):
		return fmt.Sprintf("%s %q: %v (%d/%d)", e.Kind, e.Code, e.Err, e.CurrentUsage, e.Limit)
	case errors.Is(e.Err, ErrPromotionMinOrderNotMet):
		return fmt.Sprintf("%s %q: %v (subtotal %s < %s)", e.Kind, e.Code, e.Err, e.Subtotal.String(), e.MinOrderValue.String())
	default:
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Code, e.Err)
	}
}

func (e *PromotionError) Unwrap() error {
	return e.Err
}

// StockError 库存不足，携带行信息
type StockError struct {
	ProductID uint
	VariantID uint
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%v: product %d variant %d requested %d available %d",
		ErrOutOfStock, e.ProductID, e.VariantID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return ErrOutOfStock
}
