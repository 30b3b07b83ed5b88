package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rentflow/rentflow/internal/api/dto"
	"github.com/rentflow/rentflow/internal/domain/application"
	"github.com/rentflow/rentflow/internal/domain/lease"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/testutil"
	"github.com/rentflow/rentflow/internal/types"
)

type LeaseServiceSuite struct {
	testutil.BaseServiceTestSuite
	service LeaseService
}

func TestLeaseService(t *testing.T) {
	suite.Run(t, new(LeaseServiceSuite))
}

func (s *LeaseServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewLeaseService(s.params())
}

func (s *LeaseServiceSuite) params() ServiceParams {
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

func (s *LeaseServiceSuite) seedApplication(status types.ApplicationStatus, moveIn time.Time) *application.RentalApplication {
	app := &application.RentalApplication{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_APPLICATION),
		PropertyID:        "prop_1",
		ApplicantID:       "user_tenant",
		LandlordID:        "user_landlord",
		MoveInDate:        moveIn,
		ApplicationStatus: status,
		BaseModel:         types.GetDefaultBaseModel(s.GetContext(), s.GetClock().Now()),
	}
	s.NoError(s.GetStores().ApplicationRepo.Create(s.GetContext(), app))
	return app
}

func (s *LeaseServiceSuite) seedLease(status types.LeaseStatus, start, end time.Time) *lease.Lease {
	l := &lease.Lease{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LEASE),
		LeaseNumber:     types.GenerateUUID(),
		PropertyID:      "prop_1",
		LandlordID:      "user_landlord",
		TenantID:        "user_tenant",
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     decimal.NewFromInt(1200),
		SecurityDeposit: decimal.NewFromInt(2400),
		PaymentDueDay:   5,
		LeaseStatus:     status,
		BaseModel:       types.GetDefaultBaseModel(s.GetContext(), s.GetClock().Now()),
	}
	s.NoError(s.GetStores().LeaseRepo.Create(s.GetContext(), l))
	return l
}

func (s *LeaseServiceSuite) TestCreateDraftFromApprovedApplication() {
	moveIn := time.Date(2025, 4, 1, 14, 30, 0, 0, time.UTC)
	app := s.seedApplication(types.ApplicationStatusApproved, moveIn)

	resp, err := s.service.CreateDraft(s.GetContext(), &dto.CreateLeaseRequest{
		ApplicationID:   app.ID,
		DurationMonths:  12,
		MonthlyRent:     decimal.NewFromInt(1500),
		SecurityDeposit: decimal.NewFromInt(3000),
		PaymentDueDay:   5,
	})
	s.NoError(err)
	s.Equal(types.LeaseStatusPendingSignature, resp.LeaseStatus)
	s.Equal(app.ApplicantID, resp.TenantID)
	s.Equal(app.LandlordID, resp.LandlordID)
	s.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), resp.StartDate)
	s.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), resp.EndDate)
	s.NotEmpty(resp.LeaseNumber)
	s.Nil(resp.SignedDate)

	sigs, err := s.GetStores().LeaseRepo.ListSignatures(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Empty(sigs)
}

func (s *LeaseServiceSuite) TestCreateDraftRejectsUnapprovedApplication() {
	app := s.seedApplication(types.ApplicationStatusPending, s.GetClock().Now())

	_, err := s.service.CreateDraft(s.GetContext(), &dto.CreateLeaseRequest{
		ApplicationID:  app.ID,
		DurationMonths: 12,
		MonthlyRent:    decimal.NewFromInt(1500),
		PaymentDueDay:  5,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *LeaseServiceSuite) TestCreateDraftRejectsSecondOpenLease() {
	app := s.seedApplication(types.ApplicationStatusApproved, s.GetClock().Now())

	req := &dto.CreateLeaseRequest{
		ApplicationID:  app.ID,
		DurationMonths: 12,
		MonthlyRent:    decimal.NewFromInt(1500),
		PaymentDueDay:  5,
	}
	_, err := s.service.CreateDraft(s.GetContext(), req)
	s.NoError(err)

	_, err = s.service.CreateDraft(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *LeaseServiceSuite) TestCreateDraftRejectsInvalidDueDay() {
	app := s.seedApplication(types.ApplicationStatusApproved, s.GetClock().Now())

	_, err := s.service.CreateDraft(s.GetContext(), &dto.CreateLeaseRequest{
		ApplicationID:  app.ID,
		DurationMonths: 12,
		MonthlyRent:    decimal.NewFromInt(1500),
		PaymentDueDay:  31,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LeaseServiceSuite) TestRecordSignatureActivatesAfterBothRoles() {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusPendingSignature, start, start.AddDate(1, 0, 0))

	resp, err := s.service.RecordSignature(s.GetContext(), &dto.RecordSignatureRequest{
		LeaseID:    l.ID,
		UserID:     "user_landlord",
		SignerRole: types.SignerRoleLandlord,
	})
	s.NoError(err)
	s.False(resp.Activated)
	s.Equal(types.LeaseStatusPendingSignature, resp.Lease.LeaseStatus)

	s.GetClock().Add(2 * time.Hour)
	tenantSignedAt := s.GetClock().Now()

	resp, err = s.service.RecordSignature(s.GetContext(), &dto.RecordSignatureRequest{
		LeaseID:    l.ID,
		UserID:     "user_tenant",
		SignerRole: types.SignerRoleTenant,
	})
	s.NoError(err)
	s.True(resp.Activated)
	s.Equal(types.LeaseStatusActive, resp.Lease.LeaseStatus)
	s.NotNil(resp.Lease.SignedDate)
	s.True(resp.Lease.SignedDate.Equal(tenantSignedAt))

	s.Len(s.GetNotifier().SentOfKind("lease_activated"), 1)
}

func (s *LeaseServiceSuite) TestRecordSignatureRejectsDifferentUserOnSignedRole() {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusPendingSignature, start, start.AddDate(1, 0, 0))

	_, err := s.service.RecordSignature(s.GetContext(), &dto.RecordSignatureRequest{
		LeaseID:    l.ID,
		UserID:     "user_landlord",
		SignerRole: types.SignerRoleLandlord,
	})
	s.NoError(err)

	_, err = s.service.RecordSignature(s.GetContext(), &dto.RecordSignatureRequest{
		LeaseID:    l.ID,
		UserID:     "user_impostor",
		SignerRole: types.SignerRoleLandlord,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *LeaseServiceSuite) TestRecordSignatureSameUserRefreshesTimestamp() {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusPendingSignature, start, start.AddDate(1, 0, 0))

	_, err := s.service.RecordSignature(s.GetContext(), &dto.RecordSignatureRequest{
		LeaseID:    l.ID,
		UserID:     "user_landlord",
		SignerRole: types.SignerRoleLandlord,
	})
	s.NoError(err)

	s.GetClock().Add(time.Hour)
	resigned := s.GetClock().Now()

	resp, err := s.service.RecordSignature(s.GetContext(), &dto.RecordSignatureRequest{
		LeaseID:    l.ID,
		UserID:     "user_landlord",
		SignerRole: types.SignerRoleLandlord,
	})
	s.NoError(err)
	s.False(resp.Activated)

	sigs, err := s.GetStores().LeaseRepo.ListSignatures(s.GetContext(), l.ID)
	s.NoError(err)
	s.Len(sigs, 1)
	s.True(sigs[0].SignedAt.Equal(resigned))
}

func (s *LeaseServiceSuite) TestRecordSignatureRejectsNonPendingLease() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusActive, start, start.AddDate(1, 0, 0))

	_, err := s.service.RecordSignature(s.GetContext(), &dto.RecordSignatureRequest{
		LeaseID:    l.ID,
		UserID:     "user_tenant",
		SignerRole: types.SignerRoleTenant,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *LeaseServiceSuite) TestTerminateActiveLease() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusActive, start, start.AddDate(1, 0, 0))

	resp, err := s.service.Terminate(s.GetContext(), &dto.TerminateLeaseRequest{
		LeaseID:         l.ID,
		Reason:          "tenant relocating for a new job",
		TerminationDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)
	s.Equal(types.LeaseStatusTerminated, resp.LeaseStatus)
	s.Len(s.GetNotifier().SentOfKind("lease_terminated"), 1)
}

func (s *LeaseServiceSuite) TestTerminateRejectsShortReason() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusActive, start, start.AddDate(1, 0, 0))

	_, err := s.service.Terminate(s.GetContext(), &dto.TerminateLeaseRequest{
		LeaseID:         l.ID,
		Reason:          "bad",
		TerminationDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LeaseServiceSuite) TestTerminateRejectsDateOutsideTerm() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusActive, start, start.AddDate(1, 0, 0))

	_, err := s.service.Terminate(s.GetContext(), &dto.TerminateLeaseRequest{
		LeaseID:         l.ID,
		Reason:          "property sold to a new owner",
		TerminationDate: start.AddDate(2, 0, 0),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LeaseServiceSuite) TestTerminateRejectsNonActiveLease() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusPendingSignature, start, start.AddDate(1, 0, 0))

	_, err := s.service.Terminate(s.GetContext(), &dto.TerminateLeaseRequest{
		LeaseID:         l.ID,
		Reason:          "tenant relocating for a new job",
		TerminationDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *LeaseServiceSuite) TestRenewWithinWindow() {
	// Clock sits at 2025-03-15; a lease ending 2025-04-30 is inside the
	// 60-day renewal window.
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusActive, start, end)

	resp, err := s.service.Renew(s.GetContext(), &dto.RenewLeaseRequest{
		LeaseID:         l.ID,
		ExtensionMonths: 12,
		NewMonthlyRent:  lo.ToPtr(decimal.NewFromInt(1300)),
	})
	s.NoError(err)
	s.Equal(types.LeaseStatusPendingSignature, resp.LeaseStatus)
	s.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), resp.StartDate)
	s.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), resp.EndDate)
	s.True(resp.MonthlyRent.Equal(decimal.NewFromInt(1300)))
	s.True(resp.SecurityDeposit.Equal(l.SecurityDeposit))
	s.Require().NotNil(resp.PreviousLeaseID)
	s.Equal(l.ID, *resp.PreviousLeaseID)

	source, err := s.GetStores().LeaseRepo.Get(s.GetContext(), l.ID)
	s.NoError(err)
	s.Equal(types.LeaseStatusRenewed, source.LeaseStatus)
}

func (s *LeaseServiceSuite) TestRenewRejectsOutsideWindow() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusActive, start, end)

	_, err := s.service.Renew(s.GetContext(), &dto.RenewLeaseRequest{
		LeaseID:         l.ID,
		ExtensionMonths: 12,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *LeaseServiceSuite) TestRenewRejectsNonActiveLease() {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusTerminated, start, end)

	_, err := s.service.Renew(s.GetContext(), &dto.RenewLeaseRequest{
		LeaseID:         l.ID,
		ExtensionMonths: 12,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *LeaseServiceSuite) TestExpireLeasesIsIdempotent() {
	// Ends before the clock's 2025-03-15.
	past := s.seedLease(types.LeaseStatusActive,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	current := s.seedLease(types.LeaseStatusActive,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))

	count, err := s.service.ExpireLeases(s.GetContext())
	s.NoError(err)
	s.Equal(1, count)

	expired, err := s.GetStores().LeaseRepo.Get(s.GetContext(), past.ID)
	s.NoError(err)
	s.Equal(types.LeaseStatusExpired, expired.LeaseStatus)

	stillActive, err := s.GetStores().LeaseRepo.Get(s.GetContext(), current.ID)
	s.NoError(err)
	s.Equal(types.LeaseStatusActive, stillActive.LeaseStatus)

	count, err = s.service.ExpireLeases(s.GetContext())
	s.NoError(err)
	s.Equal(0, count)
}

func (s *LeaseServiceSuite) TestGetLeaseIncludesSignatures() {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	l := s.seedLease(types.LeaseStatusPendingSignature, start, start.AddDate(1, 0, 0))

	_, err := s.service.RecordSignature(s.GetContext(), &dto.RecordSignatureRequest{
		LeaseID:    l.ID,
		UserID:     "user_landlord",
		SignerRole: types.SignerRoleLandlord,
	})
	s.NoError(err)

	resp, err := s.service.GetLease(s.GetContext(), l.ID)
	s.NoError(err)
	s.Len(resp.Signatures, 1)
	s.Equal(types.SignerRoleLandlord, resp.Signatures[0].SignerRole)
}

func (s *LeaseServiceSuite) TestGetLeaseNotFound() {
	_, err := s.service.GetLease(s.GetContext(), "lease_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
