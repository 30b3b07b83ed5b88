package types

import (
	"time"

	ierr "github.com/rentflow/rentflow/internal/errors"
)

// InvoiceStatus represents the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "pending"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusDisputed      InvoiceStatus = "disputed"
)

// Validate checks the invoice status is a known value.
func (s InvoiceStatus) Validate() error {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusDisputed:
		return nil
	}
	return ierr.NewErrorf("invalid invoice status: %s", s).
		WithHint("Invalid invoice status").
		Mark(ierr.ErrValidation)
}

// BillingMonthOf truncates a date to the first day of its calendar month (UTC).
func BillingMonthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth returns the last calendar day of the month containing t.
func LastDayOfMonth(t time.Time) time.Time {
	first := BillingMonthOf(t)
	return first.AddDate(0, 1, -1)
}

// InvoiceFilter narrows invoice queries.
type InvoiceFilter struct {
	*QueryFilter
	InvoiceIDs      []string        `json:"invoice_ids,omitempty" form:"invoice_ids"`
	LeaseIDs        []string        `json:"lease_ids,omitempty" form:"lease_ids"`
	InvoiceStatuses []InvoiceStatus `json:"invoice_statuses,omitempty" form:"invoice_statuses"`
	BillingMonth    *time.Time      `json:"billing_month,omitempty" form:"billing_month"`
	DueBefore       *time.Time      `json:"due_before,omitempty" form:"due_before"`
}

// NewInvoiceFilter creates an invoice filter with default pagination.
func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{QueryFilter: NewDefaultQueryFilter()}
}

// NewNoLimitInvoiceFilter creates an invoice filter without pagination.
func NewNoLimitInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{QueryFilter: NewNoLimitQueryFilter()}
}

// Validate validates the invoice filter.
func (f *InvoiceFilter) Validate() error {
	if f.QueryFilter == nil {
		f.QueryFilter = NewDefaultQueryFilter()
	}
	return f.QueryFilter.Validate()
}
