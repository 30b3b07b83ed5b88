package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rentflow/rentflow/internal/api/dto"
	"github.com/rentflow/rentflow/internal/domain/invoice"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/testutil"
	"github.com/rentflow/rentflow/internal/types"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentService
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPaymentService(s.params())
}

func (s *PaymentServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:          s.GetLogger(),
		Config:          s.GetConfig(),
		DB:              s.GetDB(),
		Clock:           s.GetClock(),
		LeaseRepo:       stores.LeaseRepo,
		InvoiceRepo:     stores.InvoiceRepo,
		PaymentRepo:     stores.PaymentRepo,
		DisputeRepo:     stores.DisputeRepo,
		ApplicationRepo: stores.ApplicationRepo,
		UserRepo:        stores.UserRepo,
		Notifier:        s.GetNotifier(),
	}
}

func (s *PaymentServiceSuite) seedInvoice(total, paid decimal.Decimal, due time.Time, status types.InvoiceStatus) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber: types.GenerateUUID(),
		LeaseID:       "lease_1",
		BillingMonth:  types.BillingMonthOf(due),
		IssueDate:     types.BillingMonthOf(due),
		DueDate:       due,
		TotalAmount:   total,
		PaidAmount:    paid,
		InvoiceStatus: status,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext(), s.GetClock().Now()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))
	return inv
}

func (s *PaymentServiceSuite) TestApplyFullPaymentMarksPaid() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.Zero,
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPending)

	resp, err := s.service.ApplyPayment(s.GetContext(), &dto.ApplyPaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(1200),
		PaymentMethod: types.PaymentMethodBankTransfer,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)
	s.Equal(types.PaymentStatusCompleted, resp.Payment.PaymentStatus)

	got, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.True(got.PaidAmount.Equal(decimal.NewFromInt(1200)))
	s.True(got.RemainingAmount().IsZero())
}

func (s *PaymentServiceSuite) TestApplyPartialPaymentMarksPartiallyPaid() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.Zero,
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPending)

	resp, err := s.service.ApplyPayment(s.GetContext(), &dto.ApplyPaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(500),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusPartiallyPaid, resp.InvoiceStatus)

	got, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.True(got.RemainingAmount().Equal(decimal.NewFromInt(700)))
}

func (s *PaymentServiceSuite) TestApplyPaymentRejectsOverpayment() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.NewFromInt(1000),
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPartiallyPaid)

	_, err := s.service.ApplyPayment(s.GetContext(), &dto.ApplyPaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(300),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestApplyPaymentRejectsSettledInvoice() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.Zero,
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPending)

	_, err := s.service.ApplyPayment(s.GetContext(), &dto.ApplyPaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(1200),
		PaymentMethod: types.PaymentMethodCreditCard,
	})
	s.NoError(err)

	_, err = s.service.ApplyPayment(s.GetContext(), &dto.ApplyPaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(1),
		PaymentMethod: types.PaymentMethodCreditCard,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestApplyPaymentRejectsNonPositiveAmount() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.Zero,
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPending)

	_, err := s.service.ApplyPayment(s.GetContext(), &dto.ApplyPaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.Zero,
		PaymentMethod: types.PaymentMethodCash,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestApplyPaymentBlockedOnDisputedInvoice() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.Zero,
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusDisputed)

	_, err := s.service.ApplyPayment(s.GetContext(), &dto.ApplyPaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestApplyPaymentAllowedOnDisputeWhenUnblocked() {
	s.GetConfig().Billing.BlockPaymentsOnDispute = false
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.Zero,
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusDisputed)

	resp, err := s.service.ApplyPayment(s.GetContext(), &dto.ApplyPaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(500),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusPartiallyPaid, resp.InvoiceStatus)
}

func (s *PaymentServiceSuite) TestRaiseDisputeMovesInvoiceToDisputed() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.NewFromInt(500),
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPartiallyPaid)

	resp, err := s.service.RaiseDispute(s.GetContext(), &dto.RaiseDisputeRequest{
		InvoiceID: inv.ID,
		Reason:    "charged for repairs already paid",
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusDisputed, resp.InvoiceStatus)
	s.Equal(types.DisputeStatusPending, resp.PaymentDispute.DisputeStatus)
	s.Equal("user_test", resp.PaymentDispute.RaisedBy)

	got, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusDisputed, got.InvoiceStatus)
}

func (s *PaymentServiceSuite) TestRaiseDisputeRejectsSecondOpenDispute() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.Zero,
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPending)

	_, err := s.service.RaiseDispute(s.GetContext(), &dto.RaiseDisputeRequest{
		InvoiceID: inv.ID,
		Reason:    "incorrect rent amount",
	})
	s.NoError(err)

	_, err = s.service.RaiseDispute(s.GetContext(), &dto.RaiseDisputeRequest{
		InvoiceID: inv.ID,
		Reason:    "still incorrect",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *PaymentServiceSuite) TestResolveDisputeRestoresDerivedStatus() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.NewFromInt(500),
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPartiallyPaid)

	raised, err := s.service.RaiseDispute(s.GetContext(), &dto.RaiseDisputeRequest{
		InvoiceID: inv.ID,
		Reason:    "incorrect rent amount",
	})
	s.NoError(err)

	resp, err := s.service.ResolveDispute(s.GetContext(), &dto.ResolveDisputeRequest{
		DisputeID:  raised.PaymentDispute.ID,
		Resolution: "amount confirmed against the lease",
		NewStatus:  types.DisputeStatusRejected,
	})
	s.NoError(err)
	// Due date (2025-04-05) is still ahead of the clock (2025-03-15).
	s.Equal(types.InvoiceStatusPartiallyPaid, resp.InvoiceStatus)
	s.Equal(types.DisputeStatusRejected, resp.PaymentDispute.DisputeStatus)
	s.Equal("user_test", resp.PaymentDispute.ResolvedBy)
	s.NotNil(resp.PaymentDispute.ResolvedAt)
}

func (s *PaymentServiceSuite) TestResolveDisputeRestoresOverdueWhenPastDue() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.Zero,
		time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPending)

	raised, err := s.service.RaiseDispute(s.GetContext(), &dto.RaiseDisputeRequest{
		InvoiceID: inv.ID,
		Reason:    "never received the invoice",
	})
	s.NoError(err)

	resp, err := s.service.ResolveDispute(s.GetContext(), &dto.ResolveDisputeRequest{
		DisputeID:  raised.PaymentDispute.ID,
		Resolution: "delivery confirmed",
		NewStatus:  types.DisputeStatusRejected,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusOverdue, resp.InvoiceStatus)
}

func (s *PaymentServiceSuite) TestResolveDisputeRejectsClosedDispute() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.Zero,
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPending)

	raised, err := s.service.RaiseDispute(s.GetContext(), &dto.RaiseDisputeRequest{
		InvoiceID: inv.ID,
		Reason:    "incorrect rent amount",
	})
	s.NoError(err)

	req := &dto.ResolveDisputeRequest{
		DisputeID:  raised.PaymentDispute.ID,
		Resolution: "adjusted",
		NewStatus:  types.DisputeStatusResolved,
	}
	_, err = s.service.ResolveDispute(s.GetContext(), req)
	s.NoError(err)

	_, err = s.service.ResolveDispute(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestListPaymentsReturnsHistoryInOrder() {
	inv := s.seedInvoice(decimal.NewFromInt(1200), decimal.Zero,
		time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), types.InvoiceStatusPending)

	_, err := s.service.ApplyPayment(s.GetContext(), &dto.ApplyPaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(500),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.NoError(err)

	s.GetClock().Add(time.Hour)
	_, err = s.service.ApplyPayment(s.GetContext(), &dto.ApplyPaymentRequest{
		InvoiceID:     inv.ID,
		Amount:        decimal.NewFromInt(700),
		PaymentMethod: types.PaymentMethodBankTransfer,
	})
	s.NoError(err)

	payments, err := s.service.ListPayments(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Require().Len(payments, 2)
	s.True(payments[0].Amount.Equal(decimal.NewFromInt(500)))
	s.True(payments[1].Amount.Equal(decimal.NewFromInt(700)))
}
