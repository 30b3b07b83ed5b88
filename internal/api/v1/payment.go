package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentflow/rentflow/internal/api/dto"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/logger"
	"github.com/rentflow/rentflow/internal/service"
)

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// @Summary Apply a payment
// @Description Apply a payment against an invoice and recompute its status
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payment body dto.ApplyPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /invoices/{id}/payments [post]
func (h *PaymentHandler) ApplyPayment(c *gin.Context) {
	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	req.InvoiceID = c.Param("id")

	resp, err := h.service.ApplyPayment(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to apply payment", "error", err, "invoice_id", req.InvoiceID)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List payments for an invoice
// @Description List the payment history of an invoice
// @Tags Payments
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {array} payment.Payment
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/{id}/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListPayments(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("failed to list payments", "error", err, "invoice_id", id)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Raise a dispute
// @Description Open a dispute against an invoice, moving it to Disputed
// @Tags Disputes
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param dispute body dto.RaiseDisputeRequest true "Dispute details"
// @Success 201 {object} dto.DisputeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /invoices/{id}/disputes [post]
func (h *PaymentHandler) RaiseDispute(c *gin.Context) {
	var req dto.RaiseDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	req.InvoiceID = c.Param("id")

	resp, err := h.service.RaiseDispute(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to raise dispute", "error", err, "invoice_id", req.InvoiceID)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Resolve a dispute
// @Description Close an open dispute and restore the invoice status
// @Tags Disputes
// @Accept json
// @Produce json
// @Param id path string true "Dispute ID"
// @Param resolution body dto.ResolveDisputeRequest true "Resolution details"
// @Success 200 {object} dto.DisputeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /disputes/{id}/resolve [post]
func (h *PaymentHandler) ResolveDispute(c *gin.Context) {
	var req dto.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	req.DisputeID = c.Param("id")

	resp, err := h.service.ResolveDispute(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to resolve dispute", "error", err, "dispute_id", req.DisputeID)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
