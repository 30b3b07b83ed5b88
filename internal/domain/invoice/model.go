package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

// Invoice represents the domain model for a billing record covering one
// lease for one calendar month.
type Invoice struct {
	ID            string              `json:"id" gorm:"column:id;primaryKey"`
	InvoiceNumber string              `json:"invoice_number" gorm:"column:invoice_number;uniqueIndex;not null"`
	LeaseID       string              `json:"lease_id" gorm:"column:lease_id;index:idx_invoices_lease_billing_month,unique;not null"`
	BillingMonth  time.Time           `json:"billing_month" gorm:"column:billing_month;index:idx_invoices_lease_billing_month,unique;not null"`
	IssueDate     time.Time           `json:"issue_date" gorm:"column:issue_date;not null"`
	DueDate       time.Time           `json:"due_date" gorm:"column:due_date;index;not null"`
	TotalAmount   decimal.Decimal     `json:"total_amount" gorm:"column:total_amount;type:numeric(20,8);not null"`
	PaidAmount    decimal.Decimal     `json:"paid_amount" gorm:"column:paid_amount;type:numeric(20,8);not null"`
	InvoiceStatus types.InvoiceStatus `json:"invoice_status" gorm:"column:invoice_status;index;not null"`
	Notes         string              `json:"notes,omitempty" gorm:"column:notes;type:text"`
	types.BaseModel
}

// TableName implements the gorm table-name convention.
func (Invoice) TableName() string {
	return string(types.TableNameInvoices)
}

// Validate validates the invoice invariants.
func (i *Invoice) Validate() error {
	if i.LeaseID == "" {
		return ierr.NewError("lease_id is required").
			WithHint("Lease is required").
			Mark(ierr.ErrValidation)
	}
	if i.TotalAmount.IsNegative() {
		return ierr.NewError("total_amount must be non-negative").
			WithHint("Invoice total cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if i.PaidAmount.IsNegative() || i.PaidAmount.GreaterThan(i.TotalAmount) {
		return ierr.NewError("paid_amount must be between zero and total_amount").
			WithHint("Paid amount cannot be negative or exceed the invoice total").
			WithReportableDetails(map[string]interface{}{
				"total_amount": i.TotalAmount,
				"paid_amount":  i.PaidAmount,
			}).
			Mark(ierr.ErrValidation)
	}
	if !i.BillingMonth.Equal(types.BillingMonthOf(i.BillingMonth)) {
		return ierr.NewError("billing_month must be the first day of a month").
			WithHint("Billing month must be a first-of-month date").
			Mark(ierr.ErrValidation)
	}
	return i.InvoiceStatus.Validate()
}

// RemainingAmount returns the outstanding balance, never negative.
func (i *Invoice) RemainingAmount() decimal.Decimal {
	remaining := i.TotalAmount.Sub(i.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// DerivedStatus recomputes the non-disputed status from amounts and the due
// date. Used by the overdue sweeper and when a dispute is resolved.
func (i *Invoice) DerivedStatus(asOf time.Time) types.InvoiceStatus {
	remaining := i.RemainingAmount()
	if remaining.IsZero() {
		return types.InvoiceStatusPaid
	}
	if i.DueDate.Before(asOf) {
		return types.InvoiceStatusOverdue
	}
	if i.PaidAmount.IsPositive() {
		return types.InvoiceStatusPartiallyPaid
	}
	return types.InvoiceStatusPending
}

// ComputeDueDate derives the due date for a billing month: the lease's
// payment due day, clamped to the last day of the month.
func ComputeDueDate(billingMonth time.Time, paymentDueDay int) time.Time {
	first := types.BillingMonthOf(billingMonth)
	due := first.AddDate(0, 0, paymentDueDay-1)
	if last := types.LastDayOfMonth(first); due.After(last) {
		return last
	}
	return due
}
