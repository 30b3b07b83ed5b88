package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rentflow/rentflow/internal/domain/lease"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
	"github.com/rentflow/rentflow/internal/validator"
)

// CreateLeaseRequest creates a lease draft from an approved rental application.
type CreateLeaseRequest struct {
	ApplicationID     string          `json:"application_id" validate:"required"`
	DurationMonths    int             `json:"duration_months" validate:"required,min=1"`
	MonthlyRent       decimal.Decimal `json:"monthly_rent"`
	SecurityDeposit   decimal.Decimal `json:"security_deposit"`
	PaymentDueDay     int             `json:"payment_due_day" validate:"required,min=1,max=28"`
	Terms             string          `json:"terms,omitempty"`
	SpecialConditions string          `json:"special_conditions,omitempty"`
	AutoRenew         bool            `json:"auto_renew"`
}

// Validate validates the create lease request.
func (r *CreateLeaseRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.MonthlyRent.IsNegative() {
		return ierr.NewError("monthly_rent must be non-negative").
			WithHint("Monthly rent cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if r.SecurityDeposit.IsNegative() {
		return ierr.NewError("security_deposit must be non-negative").
			WithHint("Security deposit cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RecordSignatureRequest records one party's signature on a lease.
type RecordSignatureRequest struct {
	LeaseID       string           `json:"-"`
	UserID        string           `json:"user_id" validate:"required"`
	SignerRole    types.SignerRole `json:"signer_role" validate:"required"`
	SignatureData string           `json:"signature_data,omitempty"`
	IPAddress     string           `json:"ip_address,omitempty"`
}

// Validate validates the record signature request.
func (r *RecordSignatureRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.LeaseID == "" {
		return ierr.NewError("lease_id is required").
			WithHint("Lease ID is required").
			Mark(ierr.ErrValidation)
	}
	return r.SignerRole.Validate()
}

// TerminateLeaseRequest terminates an active lease early.
type TerminateLeaseRequest struct {
	LeaseID         string    `json:"-"`
	Reason          string    `json:"reason" validate:"required"`
	TerminationDate time.Time `json:"termination_date" validate:"required"`
}

// Validate validates the terminate lease request.
func (r *TerminateLeaseRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.LeaseID == "" {
		return ierr.NewError("lease_id is required").
			WithHint("Lease ID is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RenewLeaseRequest creates a renewal lease chained to an active one.
type RenewLeaseRequest struct {
	LeaseID            string           `json:"-"`
	ExtensionMonths    int              `json:"extension_months" validate:"required,min=1"`
	NewMonthlyRent     *decimal.Decimal `json:"new_monthly_rent,omitempty"`
	NewSecurityDeposit *decimal.Decimal `json:"new_security_deposit,omitempty"`
	AdditionalTerms    string           `json:"additional_terms,omitempty"`
}

// Validate validates the renew lease request.
func (r *RenewLeaseRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.LeaseID == "" {
		return ierr.NewError("lease_id is required").
			WithHint("Lease ID is required").
			Mark(ierr.ErrValidation)
	}
	if r.NewMonthlyRent != nil && r.NewMonthlyRent.IsNegative() {
		return ierr.NewError("new_monthly_rent must be non-negative").
			WithHint("Monthly rent cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if r.NewSecurityDeposit != nil && r.NewSecurityDeposit.IsNegative() {
		return ierr.NewError("new_security_deposit must be non-negative").
			WithHint("Security deposit cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// LeaseResponse is the wire representation of a lease.
type LeaseResponse struct {
	*lease.Lease
	Signatures []*lease.LeaseSignature `json:"signatures,omitempty"`
}

// SignResponse reports the outcome of recording a signature.
type SignResponse struct {
	Lease     *lease.Lease `json:"lease"`
	Activated bool         `json:"activated"`
}
