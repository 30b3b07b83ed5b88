package dispute

import (
	"time"

	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

// PaymentDispute represents a tenant-raised contestation of an invoice.
type PaymentDispute struct {
	ID            string              `json:"id" gorm:"column:id;primaryKey"`
	InvoiceID     string              `json:"invoice_id" gorm:"column:invoice_id;index;not null"`
	RaisedBy      string              `json:"raised_by" gorm:"column:raised_by;not null"`
	Reason        string              `json:"reason" gorm:"column:reason;not null"`
	Description   string              `json:"description,omitempty" gorm:"column:description;type:text"`
	DisputeStatus types.DisputeStatus `json:"dispute_status" gorm:"column:dispute_status;index;not null"`
	Resolution    string              `json:"resolution,omitempty" gorm:"column:resolution;type:text"`
	ResolvedBy    string              `json:"resolved_by,omitempty" gorm:"column:resolved_by"`
	ResolvedAt    *time.Time          `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	types.BaseModel
}

// TableName implements the gorm table-name convention.
func (PaymentDispute) TableName() string {
	return string(types.TableNamePaymentDisputes)
}

// Validate validates the dispute invariants.
func (d *PaymentDispute) Validate() error {
	if d.InvoiceID == "" {
		return ierr.NewError("invoice_id is required").
			WithHint("Invoice is required").
			Mark(ierr.ErrValidation)
	}
	if d.RaisedBy == "" {
		return ierr.NewError("raised_by is required").
			WithHint("Disputing user is required").
			Mark(ierr.ErrValidation)
	}
	if d.Reason == "" {
		return ierr.NewError("reason is required").
			WithHint("Dispute reason is required").
			Mark(ierr.ErrValidation)
	}
	return d.DisputeStatus.Validate()
}

// IsOpen reports whether the dispute is still awaiting resolution.
func (d *PaymentDispute) IsOpen() bool {
	return d.DisputeStatus == types.DisputeStatusPending
}
