package types

import (
	ierr "github.com/rentflow/rentflow/internal/errors"
)

// PaymentMethod represents how a payment was made.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
)

// Validate checks the payment method is a known value.
func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCreditCard:
		return nil
	}
	return ierr.NewErrorf("invalid payment method: %s", m).
		WithHint("Payment method must be cash, bank_transfer or credit_card").
		Mark(ierr.ErrValidation)
}

// PaymentStatus represents the settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// DisputeStatus represents the resolution state of a payment dispute.
type DisputeStatus string

const (
	DisputeStatusPending  DisputeStatus = "pending"
	DisputeStatusResolved DisputeStatus = "resolved"
	DisputeStatusRejected DisputeStatus = "rejected"
)

// Validate checks the dispute status is a known value.
func (s DisputeStatus) Validate() error {
	switch s {
	case DisputeStatusPending, DisputeStatusResolved, DisputeStatusRejected:
		return nil
	}
	return ierr.NewErrorf("invalid dispute status: %s", s).
		WithHint("Invalid dispute status").
		Mark(ierr.ErrValidation)
}
