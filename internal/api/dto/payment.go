package dto

import (
	"github.com/shopspring/decimal"

	"github.com/rentflow/rentflow/internal/domain/dispute"
	"github.com/rentflow/rentflow/internal/domain/payment"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
	"github.com/rentflow/rentflow/internal/validator"
)

// ApplyPaymentRequest applies a payment against an invoice.
type ApplyPaymentRequest struct {
	InvoiceID     string              `json:"-"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod types.PaymentMethod `json:"payment_method" validate:"required"`
	Notes         string              `json:"notes,omitempty"`
}

// Validate validates the apply payment request.
func (r *ApplyPaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.InvoiceID == "" {
		return ierr.NewError("invoice_id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Payment amount must be greater than zero").
			WithReportableDetails(map[string]interface{}{
				"amount": r.Amount,
			}).
			Mark(ierr.ErrValidation)
	}
	return r.PaymentMethod.Validate()
}

// PaymentResponse is the wire representation of a payment.
type PaymentResponse struct {
	*payment.Payment
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
}

// RaiseDisputeRequest opens a dispute against an invoice.
type RaiseDisputeRequest struct {
	InvoiceID   string `json:"-"`
	Reason      string `json:"reason" validate:"required"`
	Description string `json:"description,omitempty"`
}

// Validate validates the raise dispute request.
func (r *RaiseDisputeRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.InvoiceID == "" {
		return ierr.NewError("invoice_id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ResolveDisputeRequest closes an open dispute.
type ResolveDisputeRequest struct {
	DisputeID  string              `json:"-"`
	Resolution string              `json:"resolution" validate:"required"`
	NewStatus  types.DisputeStatus `json:"new_status" validate:"required"`
}

// Validate validates the resolve dispute request.
func (r *ResolveDisputeRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.DisputeID == "" {
		return ierr.NewError("dispute_id is required").
			WithHint("Dispute ID is required").
			Mark(ierr.ErrValidation)
	}
	if r.NewStatus != types.DisputeStatusResolved && r.NewStatus != types.DisputeStatusRejected {
		return ierr.NewError("new_status must be resolved or rejected").
			WithHint("A dispute can only be closed as resolved or rejected").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DisputeResponse is the wire representation of a payment dispute.
type DisputeResponse struct {
	*dispute.PaymentDispute
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
}
