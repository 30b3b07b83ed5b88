package application

import (
	"time"

	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

// RentalApplication represents an applicant's request to lease a property.
// An approved application is the only valid origin for a lease draft.
type RentalApplication struct {
	ID                string                  `json:"id" gorm:"column:id;primaryKey"`
	PropertyID        string                  `json:"property_id" gorm:"column:property_id;index;not null"`
	ApplicantID       string                  `json:"applicant_id" gorm:"column:applicant_id;index;not null"`
	LandlordID        string                  `json:"landlord_id" gorm:"column:landlord_id;index;not null"`
	MoveInDate        time.Time               `json:"move_in_date" gorm:"column:move_in_date;not null"`
	ApplicationStatus types.ApplicationStatus `json:"application_status" gorm:"column:application_status;index;not null"`
	types.BaseModel
}

// TableName implements the gorm table-name convention.
func (RentalApplication) TableName() string {
	return string(types.TableNameRentalApplications)
}

// Validate validates the application invariants.
func (a *RentalApplication) Validate() error {
	if a.PropertyID == "" {
		return ierr.NewError("property_id is required").
			WithHint("Property is required").
			Mark(ierr.ErrValidation)
	}
	if a.ApplicantID == "" {
		return ierr.NewError("applicant_id is required").
			WithHint("Applicant is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsApproved reports whether the application has been approved.
func (a *RentalApplication) IsApproved() bool {
	return a.ApplicationStatus == types.ApplicationStatusApproved
}
