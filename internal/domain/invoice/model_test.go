package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

func TestComputeDueDate(t *testing.T) {
	tests := []struct {
		name         string
		billingMonth time.Time
		dueDay       int
		expected     time.Time
	}{
		{
			name:         "regular month",
			billingMonth: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			dueDay:       5,
			expected:     time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "day past end of february clamps to the 28th",
			billingMonth: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			dueDay:       31,
			expected:     time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "leap year february clamps to the 29th",
			billingMonth: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			dueDay:       31,
			expected:     time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "first of month",
			billingMonth: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			dueDay:       1,
			expected:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "mid month date normalizes to its billing month",
			billingMonth: time.Date(2025, 4, 17, 10, 30, 0, 0, time.UTC),
			dueDay:       5,
			expected:     time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeDueDate(tt.billingMonth, tt.dueDay))
		})
	}
}

func TestRemainingAmount(t *testing.T) {
	inv := &Invoice{
		TotalAmount: decimal.NewFromInt(1200),
		PaidAmount:  decimal.NewFromInt(500),
	}
	assert.True(t, inv.RemainingAmount().Equal(decimal.NewFromInt(700)))

	inv.PaidAmount = decimal.NewFromInt(1200)
	assert.True(t, inv.RemainingAmount().IsZero())

	// Overpaid rows must never report a negative balance.
	inv.PaidAmount = decimal.NewFromInt(1500)
	assert.True(t, inv.RemainingAmount().IsZero())
}

func TestDerivedStatus(t *testing.T) {
	due := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	beforeDue := due.AddDate(0, 0, -2)
	afterDue := due.AddDate(0, 0, 2)

	tests := []struct {
		name     string
		paid     decimal.Decimal
		asOf     time.Time
		expected types.InvoiceStatus
	}{
		{"unpaid before due", decimal.Zero, beforeDue, types.InvoiceStatusPending},
		{"unpaid after due", decimal.Zero, afterDue, types.InvoiceStatusOverdue},
		{"partial before due", decimal.NewFromInt(500), beforeDue, types.InvoiceStatusPartiallyPaid},
		{"partial after due", decimal.NewFromInt(500), afterDue, types.InvoiceStatusOverdue},
		{"settled after due", decimal.NewFromInt(1200), afterDue, types.InvoiceStatusPaid},
		{"exactly on due date is not overdue", decimal.Zero, due, types.InvoiceStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{
				TotalAmount: decimal.NewFromInt(1200),
				PaidAmount:  tt.paid,
				DueDate:     due,
			}
			assert.Equal(t, tt.expected, inv.DerivedStatus(tt.asOf))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Invoice {
		return &Invoice{
			LeaseID:       "lease_1",
			BillingMonth:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			TotalAmount:   decimal.NewFromInt(1200),
			PaidAmount:    decimal.Zero,
			InvoiceStatus: types.InvoiceStatusPending,
		}
	}

	assert.NoError(t, valid().Validate())

	inv := valid()
	inv.BillingMonth = time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, ierr.IsValidation(inv.Validate()))

	inv = valid()
	inv.PaidAmount = decimal.NewFromInt(1500)
	assert.True(t, ierr.IsValidation(inv.Validate()))

	inv = valid()
	inv.TotalAmount = decimal.NewFromInt(-1)
	assert.True(t, ierr.IsValidation(inv.Validate()))

	inv = valid()
	inv.LeaseID = ""
	assert.True(t, ierr.IsValidation(inv.Validate()))
}
