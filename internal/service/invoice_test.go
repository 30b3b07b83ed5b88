package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rentflow/rentflow/internal/domain/invoice"
	"github.com/rentflow/rentflow/internal/domain/lease"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/testutil"
	"github.com/rentflow/rentflow/internal/types"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service InvoiceService
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewInvoiceService(s.params())
}

func (s *InvoiceServiceSuite) params() ServiceParams {
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

func (s *InvoiceServiceSuite) seedActiveLease(rent decimal.Decimal, dueDay int, start, end time.Time) *lease.Lease {
	l := &lease.Lease{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LEASE),
		LeaseNumber:     types.GenerateUUID(),
		PropertyID:      "prop_1",
		LandlordID:      "user_landlord",
		TenantID:        "user_tenant",
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     rent,
		SecurityDeposit: rent.Mul(decimal.NewFromInt(2)),
		PaymentDueDay:   dueDay,
		LeaseStatus:     types.LeaseStatusActive,
		BaseModel:       types.GetDefaultBaseModel(s.GetContext(), s.GetClock().Now()),
	}
	s.NoError(s.GetStores().LeaseRepo.Create(s.GetContext(), l))
	return l
}

func (s *InvoiceServiceSuite) seedInvoice(leaseID string, month, due time.Time, total, paid decimal.Decimal, status types.InvoiceStatus) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber: types.GenerateUUID(),
		LeaseID:       leaseID,
		BillingMonth:  types.BillingMonthOf(month),
		IssueDate:     types.BillingMonthOf(month),
		DueDate:       due,
		TotalAmount:   total,
		PaidAmount:    paid,
		InvoiceStatus: status,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext(), s.GetClock().Now()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))
	return inv
}

func (s *InvoiceServiceSuite) TestRunDailyGeneratesOnFirstOfMonth() {
	s.GetClock().Set(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	l := s.seedActiveLease(decimal.NewFromInt(5000000), 5,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))

	resp, err := s.service.RunDaily(s.GetContext(), false)
	s.NoError(err)
	s.True(resp.GenerationRan)
	s.Equal(1, resp.Generated)
	s.Equal(0, resp.Skipped)
	s.Equal(0, resp.Failed)

	month := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	inv, err := s.GetStores().InvoiceRepo.GetByLeaseAndMonth(s.GetContext(), l.ID, month)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPending, inv.InvoiceStatus)
	s.True(inv.TotalAmount.Equal(decimal.NewFromInt(5000000)))
	s.True(inv.PaidAmount.IsZero())
	s.Equal(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), inv.DueDate)
	s.NotEmpty(inv.InvoiceNumber)

	s.Len(s.GetNotifier().SentOfKind("invoice_created_tenant"), 1)
	s.Len(s.GetNotifier().SentOfKind("invoice_created_landlord"), 1)
}

func (s *InvoiceServiceSuite) TestRunDailySecondRunSkips() {
	s.GetClock().Set(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	l := s.seedActiveLease(decimal.NewFromInt(1200), 5,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))

	resp, err := s.service.RunDaily(s.GetContext(), false)
	s.NoError(err)
	s.Equal(1, resp.Generated)

	resp, err = s.service.RunDaily(s.GetContext(), false)
	s.NoError(err)
	s.Equal(0, resp.Generated)
	s.Equal(1, resp.Skipped)

	invoices, err := s.GetStores().InvoiceRepo.List(s.GetContext(), &types.InvoiceFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		LeaseIDs:    []string{l.ID},
	})
	s.NoError(err)
	s.Len(invoices, 1)
}

func (s *InvoiceServiceSuite) TestRunDailySkipsGenerationOffSchedule() {
	// Clock sits at 2025-03-15, not the first of the month.
	s.seedActiveLease(decimal.NewFromInt(1200), 5,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))

	resp, err := s.service.RunDaily(s.GetContext(), false)
	s.NoError(err)
	s.False(resp.GenerationRan)
	s.Equal(0, resp.Generated)
}

func (s *InvoiceServiceSuite) TestRunDailyForceGeneratesOffSchedule() {
	l := s.seedActiveLease(decimal.NewFromInt(1200), 5,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))

	resp, err := s.service.RunDaily(s.GetContext(), true)
	s.NoError(err)
	s.True(resp.GenerationRan)
	s.Equal(1, resp.Generated)

	// The billing month is the month containing the run date.
	month := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	inv, err := s.GetStores().InvoiceRepo.GetByLeaseAndMonth(s.GetContext(), l.ID, month)
	s.NoError(err)
	s.True(inv.BillingMonth.Equal(month))
}

func (s *InvoiceServiceSuite) TestRunDailyExpiresLeasesBeforeGeneration() {
	s.GetClock().Set(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	ended := s.seedActiveLease(decimal.NewFromInt(1200), 5,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	resp, err := s.service.RunDaily(s.GetContext(), false)
	s.NoError(err)
	s.Equal(1, resp.LeasesExpired)
	s.Equal(0, resp.Generated)

	l, err := s.GetStores().LeaseRepo.Get(s.GetContext(), ended.ID)
	s.NoError(err)
	s.Equal(types.LeaseStatusExpired, l.LeaseStatus)

	_, err = s.GetStores().InvoiceRepo.GetByLeaseAndMonth(s.GetContext(), ended.ID,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestRunDailySweepsOverdueEveryDay() {
	l := s.seedActiveLease(decimal.NewFromInt(1200), 5,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	inv := s.seedInvoice(l.ID,
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(1200), decimal.Zero, types.InvoiceStatusPending)

	resp, err := s.service.RunDaily(s.GetContext(), false)
	s.NoError(err)
	s.False(resp.GenerationRan)
	s.Equal(1, resp.OverdueSwept)

	got, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusOverdue, got.InvoiceStatus)

	// The sweep is idempotent.
	resp, err = s.service.RunDaily(s.GetContext(), false)
	s.NoError(err)
	s.Equal(0, resp.OverdueSwept)
}

func (s *InvoiceServiceSuite) TestSweepOverdueLeavesSettledInvoicesAlone() {
	l := s.seedActiveLease(decimal.NewFromInt(1200), 5,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	paid := s.seedInvoice(l.ID,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(1200), decimal.NewFromInt(1200), types.InvoiceStatusPaid)
	partial := s.seedInvoice(l.ID,
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(1200), decimal.NewFromInt(500), types.InvoiceStatusPartiallyPaid)

	count, err := s.service.SweepOverdue(s.GetContext(), s.GetClock().Today())
	s.NoError(err)
	s.Equal(1, count)

	got, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), paid.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, got.InvoiceStatus)

	got, err = s.GetStores().InvoiceRepo.Get(s.GetContext(), partial.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusOverdue, got.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestRunDailyObservesCancellation() {
	s.GetClock().Set(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	s.seedActiveLease(decimal.NewFromInt(1200), 5,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(s.GetContext())
	cancel()

	resp, err := s.service.RunDaily(ctx, false)
	s.Error(err)
	s.ErrorIs(err, context.Canceled)
	s.Equal(0, resp.Generated)
}

func (s *InvoiceServiceSuite) TestRunDailyNotificationFailureDoesNotFailRun() {
	s.GetClock().Set(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	l := s.seedActiveLease(decimal.NewFromInt(1200), 5,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	s.GetNotifier().Err = context.DeadlineExceeded

	resp, err := s.service.RunDaily(s.GetContext(), false)
	s.NoError(err)
	s.Equal(1, resp.Generated)
	s.Equal(0, resp.Failed)

	_, err = s.GetStores().InvoiceRepo.GetByLeaseAndMonth(s.GetContext(), l.ID,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
}

func (s *InvoiceServiceSuite) TestGetInvoiceReportsRemainingAmount() {
	l := s.seedActiveLease(decimal.NewFromInt(1200), 5,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	inv := s.seedInvoice(l.ID,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(1200), decimal.NewFromInt(500), types.InvoiceStatusPartiallyPaid)

	resp, err := s.service.GetInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal("700", resp.RemainingAmount)
}

func (s *InvoiceServiceSuite) TestListInvoicesByLease() {
	l := s.seedActiveLease(decimal.NewFromInt(1200), 5,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	s.seedInvoice(l.ID,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(1200), decimal.Zero, types.InvoiceStatusPending)
	s.seedInvoice(l.ID,
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(1200), decimal.Zero, types.InvoiceStatusPending)

	resp, err := s.service.ListInvoices(s.GetContext(), &types.InvoiceFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		LeaseIDs:    []string{l.ID},
	})
	s.NoError(err)
	s.Len(resp, 2)
}
