package handler

import (
	"payflow/internal/adapter/http/dto"
	"payflow/internal/adapter/http/middleware"
	"payflow/internal/core/domain"
	"payflow/internal/core/ports"
	"payflow/pkg/apperror"
	"payflow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment saga endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// Submit handles POST /api/v1/payments. The saga runs synchronously; a
// failed or parked payment still returns its PaymentResult in data.
func (h *PaymentHandler) Submit(c *gin.Context) {
	var req dto.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.paymentSvc.Submit(c.Request.Context(), ports.SubmitPaymentRequest{
		IdempotencyKey: c.GetHeader(dto.HeaderIdempotencyKey),
		Reference:      req.Reference,
		Amount:         req.Amount,
		FromCurrency:   req.FromCurrency,
		ToCurrency:     req.ToCurrency,
		Sender:         req.Sender.ToDomain(),
		Recipient:      req.Recipient.ToDomain(),
	})
	if err != nil {
		response.ErrorWithData(c, err, result)
		return
	}

	response.Created(c, result)
}

// Get handles GET /api/v1/payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}

	snap, err := h.paymentSvc.GetStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromSnapshot(snap))
}

// Cancel handles POST /api/v1/payments/:id/cancel.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}

	result, err := h.paymentSvc.Cancel(c.Request.Context(), id)
	if err != nil {
		response.ErrorWithData(c, err, result)
		return
	}
	response.OK(c, result)
}

// Resume handles POST /api/v1/payments/:id/resume. The reviewer defaults
// to the authenticated operator.
func (h *PaymentHandler) Resume(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}

	var req dto.ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)
	if req.Reviewer == "" {
		req.Reviewer = c.GetString(middleware.CtxSubject)
	}

	result, err := h.paymentSvc.Resume(c.Request.Context(), id, domain.ReviewDecision(req.Decision), req.Reviewer)
	if err != nil {
		response.ErrorWithData(c, err, result)
		return
	}
	response.OK(c, result)
}

func paymentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("invalid payment id"))
		return uuid.Nil, false
	}
	return id, true
}
