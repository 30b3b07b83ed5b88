package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentflow/rentflow/internal/api/dto"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/logger"
	"github.com/rentflow/rentflow/internal/service"
)

// InvoiceCronHandler exposes the daily invoice run for out-of-schedule
// triggering. Safe to race the scheduled run: generation is idempotent per
// (lease, billing month).
type InvoiceCronHandler struct {
	invoiceService service.InvoiceService
	logger         *logger.Logger
}

// NewInvoiceCronHandler creates a new invoice cron handler
func NewInvoiceCronHandler(
	invoiceService service.InvoiceService,
	logger *logger.Logger,
) *InvoiceCronHandler {
	return &InvoiceCronHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// GenerateInvoices runs the daily cycle on demand
func (h *InvoiceCronHandler) GenerateInvoices(c *gin.Context) {
	h.logger.Infow("starting invoice generation cron job")

	var req dto.GenerateInvoicesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Errorw("failed to parse request body", "error", err)
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	resp, err := h.invoiceService.RunDaily(c.Request.Context(), req.Force)
	if err != nil {
		h.logger.Errorw("invoice generation cron job failed", "error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed invoice generation cron job",
		"generated", resp.Generated,
		"skipped", resp.Skipped,
		"failed", resp.Failed,
	)
	c.JSON(http.StatusOK, resp)
}
