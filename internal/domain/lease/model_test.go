package lease

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

func validLease() *Lease {
	return &Lease{
		ID:              "lease_1",
		PropertyID:      "prop_1",
		LandlordID:      "user_landlord",
		TenantID:        "user_tenant",
		StartDate:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		MonthlyRent:     decimal.NewFromInt(1200),
		SecurityDeposit: decimal.NewFromInt(2400),
		PaymentDueDay:   5,
		LeaseStatus:     types.LeaseStatusPendingSignature,
	}
}

func TestLeaseValidate(t *testing.T) {
	assert.NoError(t, validLease().Validate())

	l := validLease()
	l.EndDate = l.StartDate
	assert.True(t, ierr.IsValidation(l.Validate()))

	l = validLease()
	l.MonthlyRent = decimal.NewFromInt(-100)
	assert.True(t, ierr.IsValidation(l.Validate()))

	l = validLease()
	l.PaymentDueDay = 29
	assert.True(t, ierr.IsValidation(l.Validate()))

	l = validLease()
	l.PaymentDueDay = 0
	assert.True(t, ierr.IsValidation(l.Validate()))

	l = validLease()
	l.TenantID = ""
	assert.True(t, ierr.IsValidation(l.Validate()))

	l = validLease()
	l.LeaseStatus = "cancelled"
	assert.True(t, ierr.IsValidation(l.Validate()))
}

func TestIsWithinTerm(t *testing.T) {
	l := validLease()

	assert.True(t, l.IsWithinTerm(l.StartDate))
	assert.True(t, l.IsWithinTerm(l.EndDate))
	assert.True(t, l.IsWithinTerm(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, l.IsWithinTerm(l.StartDate.AddDate(0, 0, -1)))
	assert.False(t, l.IsWithinTerm(l.EndDate.AddDate(0, 0, 1)))
}

func TestSignatureValidate(t *testing.T) {
	sig := &LeaseSignature{
		ID:         "sign_1",
		LeaseID:    "lease_1",
		UserID:     "user_tenant",
		SignerRole: types.SignerRoleTenant,
	}
	assert.NoError(t, sig.Validate())

	sig.SignerRole = "witness"
	assert.True(t, ierr.IsValidation(sig.Validate()))

	sig.SignerRole = types.SignerRoleTenant
	sig.UserID = ""
	assert.True(t, ierr.IsValidation(sig.Validate()))
}
