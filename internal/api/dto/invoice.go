package dto

import (
	"github.com/rentflow/rentflow/internal/domain/invoice"
)

// GenerateInvoicesRequest triggers a generation run out of schedule.
type GenerateInvoicesRequest struct {
	// Force runs generation even when today is not the first of the month.
	Force bool `json:"force"`
}

// GenerationRunResponse summarizes one generation run.
type GenerationRunResponse struct {
	RunDate         string `json:"run_date"`
	Generated       int    `json:"generated"`
	Skipped         int    `json:"skipped"`
	Failed          int    `json:"failed"`
	OverdueSwept    int    `json:"overdue_swept"`
	LeasesExpired   int    `json:"leases_expired"`
	GenerationRan   bool   `json:"generation_ran"`
	ProcessedLeases int    `json:"processed_leases"`
}

// InvoiceResponse is the wire representation of an invoice.
type InvoiceResponse struct {
	*invoice.Invoice
	RemainingAmount string `json:"remaining_amount"`
}

// NewInvoiceResponse builds the wire representation of an invoice.
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		Invoice:         inv,
		RemainingAmount: inv.RemainingAmount().String(),
	}
}
