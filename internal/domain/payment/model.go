package payment

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

// Payment represents a settlement applied against an invoice.
type Payment struct {
	ID            string              `json:"id" gorm:"column:id;primaryKey"`
	InvoiceID     string              `json:"invoice_id" gorm:"column:invoice_id;index;not null"`
	Amount        decimal.Decimal     `json:"amount" gorm:"column:amount;type:numeric(20,8);not null"`
	PaymentMethod types.PaymentMethod `json:"payment_method" gorm:"column:payment_method;not null"`
	PaymentDate   time.Time           `json:"payment_date" gorm:"column:payment_date;not null"`
	PaymentStatus types.PaymentStatus `json:"payment_status" gorm:"column:payment_status;index;not null"`
	Notes         string              `json:"notes,omitempty" gorm:"column:notes;type:text"`
	types.BaseModel
}

// TableName implements the gorm table-name convention.
func (Payment) TableName() string {
	return string(types.TableNamePayments)
}

// Validate validates the payment invariants.
func (p *Payment) Validate() error {
	if p.InvoiceID == "" {
		return ierr.NewError("invoice_id is required").
			WithHint("Invoice is required").
			Mark(ierr.ErrValidation)
	}
	if !p.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Payment amount must be greater than zero").
			WithReportableDetails(map[string]interface{}{
				"amount": p.Amount,
			}).
			Mark(ierr.ErrValidation)
	}
	return p.PaymentMethod.Validate()
}
