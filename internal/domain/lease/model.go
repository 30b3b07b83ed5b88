package lease

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

// Lease represents the domain model for a tenancy agreement.
type Lease struct {
	ID                string            `json:"id" gorm:"column:id;primaryKey"`
	LeaseNumber       string            `json:"lease_number" gorm:"column:lease_number;uniqueIndex;not null"`
	PropertyID        string            `json:"property_id" gorm:"column:property_id;index;not null"`
	LandlordID        string            `json:"landlord_id" gorm:"column:landlord_id;index;not null"`
	TenantID          string            `json:"tenant_id" gorm:"column:tenant_id;index;not null"`
	ApplicationID     string            `json:"application_id,omitempty" gorm:"column:application_id;index"`
	StartDate         time.Time         `json:"start_date" gorm:"column:start_date;not null"`
	EndDate           time.Time         `json:"end_date" gorm:"column:end_date;not null"`
	MonthlyRent       decimal.Decimal   `json:"monthly_rent" gorm:"column:monthly_rent;type:numeric(20,8);not null"`
	SecurityDeposit   decimal.Decimal   `json:"security_deposit" gorm:"column:security_deposit;type:numeric(20,8);not null"`
	PaymentDueDay     int               `json:"payment_due_day" gorm:"column:payment_due_day;not null"`
	Terms             string            `json:"terms,omitempty" gorm:"column:terms;type:text"`
	SpecialConditions string            `json:"special_conditions,omitempty" gorm:"column:special_conditions;type:text"`
	AutoRenew         bool              `json:"auto_renew" gorm:"column:auto_renew;default:false"`
	LeaseStatus       types.LeaseStatus `json:"lease_status" gorm:"column:lease_status;index;not null"`
	SignedDate        *time.Time        `json:"signed_date,omitempty" gorm:"column:signed_date"`
	PreviousLeaseID   *string           `json:"previous_lease_id,omitempty" gorm:"column:previous_lease_id;index"`
	types.BaseModel
}

// TableName implements the gorm table-name convention.
func (Lease) TableName() string {
	return string(types.TableNameLeases)
}

// Validate validates the lease invariants.
func (l *Lease) Validate() error {
	if l.PropertyID == "" {
		return ierr.NewError("property_id is required").
			WithHint("Property is required").
			Mark(ierr.ErrValidation)
	}
	if l.TenantID == "" {
		return ierr.NewError("tenant_id is required").
			WithHint("Tenant is required").
			Mark(ierr.ErrValidation)
	}
	if l.LandlordID == "" {
		return ierr.NewError("landlord_id is required").
			WithHint("Landlord is required").
			Mark(ierr.ErrValidation)
	}
	if !l.EndDate.After(l.StartDate) {
		return ierr.NewError("end_date must be after start_date").
			WithHint("Lease end date must be after its start date").
			WithReportableDetails(map[string]interface{}{
				"start_date": l.StartDate,
				"end_date":   l.EndDate,
			}).
			Mark(ierr.ErrValidation)
	}
	if l.MonthlyRent.IsNegative() {
		return ierr.NewError("monthly_rent must be non-negative").
			WithHint("Monthly rent cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if l.SecurityDeposit.IsNegative() {
		return ierr.NewError("security_deposit must be non-negative").
			WithHint("Security deposit cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if l.PaymentDueDay < 1 || l.PaymentDueDay > 28 {
		return ierr.NewError("payment_due_day must be between 1 and 28").
			WithHint("Payment due day must be between 1 and 28").
			WithReportableDetails(map[string]interface{}{
				"payment_due_day": l.PaymentDueDay,
			}).
			Mark(ierr.ErrValidation)
	}
	return l.LeaseStatus.Validate()
}

// IsWithinTerm reports whether the given date falls inside [StartDate, EndDate].
func (l *Lease) IsWithinTerm(date time.Time) bool {
	return !date.Before(l.StartDate) && !date.After(l.EndDate)
}

// LeaseSignature represents one party's signature on a lease.
type LeaseSignature struct {
	ID            string           `json:"id" gorm:"column:id;primaryKey"`
	LeaseID       string           `json:"lease_id" gorm:"column:lease_id;index:idx_lease_signatures_lease_role,unique;not null"`
	UserID        string           `json:"user_id" gorm:"column:user_id;not null"`
	SignerRole    types.SignerRole `json:"signer_role" gorm:"column:signer_role;index:idx_lease_signatures_lease_role,unique;not null"`
	SignatureData string           `json:"signature_data,omitempty" gorm:"column:signature_data;type:text"`
	SignedAt      time.Time        `json:"signed_at" gorm:"column:signed_at;not null"`
	IPAddress     string           `json:"ip_address,omitempty" gorm:"column:ip_address"`
	types.BaseModel
}

// TableName implements the gorm table-name convention.
func (LeaseSignature) TableName() string {
	return string(types.TableNameLeaseSignatures)
}

// Validate validates the signature invariants.
func (s *LeaseSignature) Validate() error {
	if s.LeaseID == "" {
		return ierr.NewError("lease_id is required").
			WithHint("Lease is required").
			Mark(ierr.ErrValidation)
	}
	if s.UserID == "" {
		return ierr.NewError("user_id is required").
			WithHint("Signer is required").
			Mark(ierr.ErrValidation)
	}
	return s.SignerRole.Validate()
}
