package admin

import (
	"time"

	handlershared "github.com/marketplace-next/internal/http/handlers/shared"
	"github.com/marketplace-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreatePaymentBatchRequest 创建打款批次请求，cutoff 为空时按结算周期计算
type CreatePaymentBatchRequest struct {
	Cutoff string `json:"cutoff"`
}

// SettleBatchRequest 完成打款请求
type SettleBatchRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required"`
}

// RecognizeOrderRevenue 手动补录订单收入
func (h *Handler) RecognizeOrderRevenue(c *gin.Context) {
	orderID, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	record, err := h.RevenueService.RecognizeOrder(c.Request.Context(), orderID)
	if err != nil {
		respondMappedError(c, err, revenueErrorRules, "error.revenue_failed")
		return
	}
	response.Success(c, record)
}

// CreatePaymentBatch 创建打款批次
func (h *Handler) CreatePaymentBatch(c *gin.Context) {
	var req CreatePaymentBatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	cutoff, err := parseTimeNullable(req.Cutoff)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	ctx := c.Request.Context()
	if cutoff == nil {
		batch, err := h.RevenueService.CreateDuePaymentBatch(ctx, time.Now())
		if err != nil {
			respondMappedError(c, err, batchErrorRules, "error.batch_failed")
			return
		}
		response.Success(c, batch)
		return
	}
	batch, err := h.RevenueService.CreatePaymentBatch(ctx, *cutoff)
	if err != nil {
		respondMappedError(c, err, batchErrorRules, "error.batch_failed")
		return
	}
	response.Success(c, batch)
}

// GetPaymentBatch 获取打款批次
func (h *Handler) GetPaymentBatch(c *gin.Context) {
	batch, err := h.RevenueService.GetBatch(c.Param("batch_id"))
	if err != nil {
		respondMappedError(c, err, batchErrorRules, "error.batch_failed")
		return
	}
	response.Success(c, batch)
}

// SettlePaymentBatch 标记批次已打款
func (h *Handler) SettlePaymentBatch(c *gin.Context) {
	var req SettleBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	batch, err := h.RevenueService.SettleBatch(c.Request.Context(), c.Param("batch_id"), req.PaymentReference)
	if err != nil {
		respondMappedError(c, err, batchErrorRules, "error.batch_failed")
		return
	}
	operatorID := getOperatorID(c)
	requestLog(c).Infow("admin_payment_batch_settled",
		"batch_id", batch.BatchID,
		"operator_id", operatorID,
		"payment_reference", batch.PaymentReference,
	)
	response.Success(c, batch)
}
