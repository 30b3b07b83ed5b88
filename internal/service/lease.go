package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/rentflow/rentflow/internal/api/dto"
	"github.com/rentflow/rentflow/internal/clock"
	"github.com/rentflow/rentflow/internal/domain/lease"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

// LeaseService enforces the lease lifecycle state machine:
// PendingSignature -> Active -> Terminated | Expired | Renewed.
// All transitions go through this service; callers never mutate lease
// status directly.
type LeaseService interface {
	// CreateDraft creates a lease from an approved rental application. The
	// lease starts in PendingSignature with zero signatures.
	CreateDraft(ctx context.Context, req *dto.CreateLeaseRequest) (*dto.LeaseResponse, error)

	// RecordSignature records one party's signature. Re-signing by the same
	// user refreshes the timestamp; a different user on a signed role is
	// rejected. Once both roles have signed the lease becomes Active.
	RecordSignature(ctx context.Context, req *dto.RecordSignatureRequest) (*dto.SignResponse, error)

	// Terminate ends an active lease early.
	Terminate(ctx context.Context, req *dto.TerminateLeaseRequest) (*dto.LeaseResponse, error)

	// Renew creates a successor lease chained via PreviousLeaseID and marks
	// the source lease Renewed immediately.
	Renew(ctx context.Context, req *dto.RenewLeaseRequest) (*dto.LeaseResponse, error)

	// ExpireLeases marks active leases whose end date has passed as Expired.
	// Idempotent; run daily by the scheduler before invoice generation.
	ExpireLeases(ctx context.Context) (int, error)

	GetLease(ctx context.Context, id string) (*dto.LeaseResponse, error)
	ListLeases(ctx context.Context, filter *types.LeaseFilter) ([]*dto.LeaseResponse, error)
}

type leaseService struct {
	ServiceParams
}

// NewLeaseService creates a new lease service.
func NewLeaseService(params ServiceParams) LeaseService {
	return &leaseService{ServiceParams: params}
}

func (s *leaseService) CreateDraft(ctx context.Context, req *dto.CreateLeaseRequest) (*dto.LeaseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	app, err := s.ApplicationRepo.Get(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsApproved() {
		return nil, ierr.NewError("rental application is not approved").
			WithHint("A lease can only be created from an approved application").
			WithReportableDetails(map[string]interface{}{
				"application_id":     app.ID,
				"application_status": app.ApplicationStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	var l *lease.Lease
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		open, err := s.LeaseRepo.CountOpenByApplication(ctx, app.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return ierr.NewError("application already has an open lease").
				WithHint("This application already has a pending or active lease").
				WithReportableDetails(map[string]interface{}{
					"application_id": app.ID,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		number, err := s.LeaseRepo.NextLeaseNumber(ctx)
		if err != nil {
			return err
		}

		now := s.Clock.Now()
		startDate := clock.Truncate(app.MoveInDate)
		l = &lease.Lease{
			ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LEASE),
			LeaseNumber:       number,
			PropertyID:        app.PropertyID,
			LandlordID:        app.LandlordID,
			TenantID:          app.ApplicantID,
			ApplicationID:     app.ID,
			StartDate:         startDate,
			EndDate:           startDate.AddDate(0, req.DurationMonths, 0),
			MonthlyRent:       req.MonthlyRent,
			SecurityDeposit:   req.SecurityDeposit,
			PaymentDueDay:     req.PaymentDueDay,
			Terms:             req.Terms,
			SpecialConditions: req.SpecialConditions,
			AutoRenew:         req.AutoRenew,
			LeaseStatus:       types.LeaseStatusPendingSignature,
			BaseModel:         types.GetDefaultBaseModel(ctx, now),
		}
		return s.LeaseRepo.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("lease draft created",
		"lease_id", l.ID,
		"lease_number", l.LeaseNumber,
		"application_id", app.ID,
	)
	return &dto.LeaseResponse{Lease: l}, nil
}

func (s *leaseService) RecordSignature(ctx context.Context, req *dto.RecordSignatureRequest) (*dto.SignResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		l         *lease.Lease
		activated bool
	)
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		l, err = s.LeaseRepo.Get(ctx, req.LeaseID)
		if err != nil {
			return err
		}
		if l.LeaseStatus != types.LeaseStatusPendingSignature {
			return ierr.NewError("lease is not awaiting signatures").
				WithHint("Signatures can only be recorded while the lease is pending signature").
				WithReportableDetails(map[string]interface{}{
					"lease_id":     l.ID,
					"lease_status": l.LeaseStatus,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		sigs, err := s.LeaseRepo.ListSignatures(ctx, l.ID)
		if err != nil {
			return err
		}
		existing, found := lo.Find(sigs, func(sig *lease.LeaseSignature) bool {
			return sig.SignerRole == req.SignerRole
		})
		if found && existing.UserID != req.UserID {
			return ierr.NewError("role already signed by another user").
				WithHint("This role has already been signed by a different user").
				WithReportableDetails(map[string]interface{}{
					"lease_id":    l.ID,
					"signer_role": req.SignerRole,
				}).
				Mark(ierr.ErrAlreadyExists)
		}

		now := s.Clock.Now()
		sig := &lease.LeaseSignature{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LEASE_SIGNATURE),
			LeaseID:       l.ID,
			UserID:        req.UserID,
			SignerRole:    req.SignerRole,
			SignatureData: req.SignatureData,
			SignedAt:      now,
			IPAddress:     req.IPAddress,
			BaseModel:     types.GetDefaultBaseModel(ctx, now),
		}
		if err := s.LeaseRepo.UpsertSignature(ctx, sig); err != nil {
			return err
		}

		sigs, err = s.LeaseRepo.ListSignatures(ctx, l.ID)
		if err != nil {
			return err
		}
		if !allRolesSigned(sigs) {
			return nil
		}

		// Both parties have signed: activate atomically with the signature.
		signedDate := lo.MaxBy(sigs, func(a, b *lease.LeaseSignature) bool {
			return a.SignedAt.After(b.SignedAt)
		}).SignedAt
		l.LeaseStatus = types.LeaseStatusActive
		l.SignedDate = &signedDate
		l.UpdatedAt = now
		l.UpdatedBy = types.GetUserID(ctx)
		activated = true
		return s.LeaseRepo.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	if activated {
		s.Logger.Infow("lease activated", "lease_id", l.ID, "lease_number", l.LeaseNumber)
		if err := s.Notifier.SendLeaseActivated(ctx, l); err != nil {
			s.Logger.Errorw("failed to send lease activation notification",
				"error", err, "lease_id", l.ID)
		}
	}

	return &dto.SignResponse{Lease: l, Activated: activated}, nil
}

func allRolesSigned(sigs []*lease.LeaseSignature) bool {
	signed := lo.SliceToMap(sigs, func(sig *lease.LeaseSignature) (types.SignerRole, bool) {
		return sig.SignerRole, true
	})
	for _, role := range types.RequiredSignerRoles {
		if !signed[role] {
			return false
		}
	}
	return true
}

func (s *leaseService) Terminate(ctx context.Context, req *dto.TerminateLeaseRequest) (*dto.LeaseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Reason) < s.Config.Leases.MinTerminationReasonLen {
		return nil, ierr.NewErrorf("termination reason must be at least %d characters", s.Config.Leases.MinTerminationReasonLen).
			WithHintf("Termination reason must be at least %d characters", s.Config.Leases.MinTerminationReasonLen).
			Mark(ierr.ErrValidation)
	}

	var l *lease.Lease
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		l, err = s.LeaseRepo.Get(ctx, req.LeaseID)
		if err != nil {
			return err
		}
		if l.LeaseStatus != types.LeaseStatusActive {
			return ierr.NewError("only active leases can be terminated").
				WithHint("Only active leases can be terminated").
				WithReportableDetails(map[string]interface{}{
					"lease_id":     l.ID,
					"lease_status": l.LeaseStatus,
				}).
				Mark(ierr.ErrInvalidOperation)
		}
		if !l.IsWithinTerm(req.TerminationDate) {
			return ierr.NewError("termination date is outside the lease term").
				WithHint("Termination date must fall within the lease term").
				WithReportableDetails(map[string]interface{}{
					"start_date":       l.StartDate,
					"end_date":         l.EndDate,
					"termination_date": req.TerminationDate,
				}).
				Mark(ierr.ErrValidation)
		}

		l.LeaseStatus = types.LeaseStatusTerminated
		l.UpdatedAt = s.Clock.Now()
		l.UpdatedBy = types.GetUserID(ctx)
		return s.LeaseRepo.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("lease terminated",
		"lease_id", l.ID,
		"termination_date", req.TerminationDate,
		"by_user", types.GetUserID(ctx),
	)
	if err := s.Notifier.SendLeaseTerminated(ctx, l); err != nil {
		s.Logger.Errorw("failed to send lease termination notification",
			"error", err, "lease_id", l.ID)
	}

	return &dto.LeaseResponse{Lease: l}, nil
}

func (s *leaseService) Renew(ctx context.Context, req *dto.RenewLeaseRequest) (*dto.LeaseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var renewal *lease.Lease
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		source, err := s.LeaseRepo.Get(ctx, req.LeaseID)
		if err != nil {
			return err
		}
		if source.LeaseStatus != types.LeaseStatusActive {
			return ierr.NewError("only active leases can be renewed").
				WithHint("Only active leases can be renewed").
				WithReportableDetails(map[string]interface{}{
					"lease_id":     source.ID,
					"lease_status": source.LeaseStatus,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		today := s.Clock.Today()
		windowOpen := source.EndDate.AddDate(0, 0, -s.Config.Leases.RenewalWindowDays)
		if today.Before(windowOpen) {
			return ierr.NewErrorf("lease can only be renewed within %d days of its end date", s.Config.Leases.RenewalWindowDays).
				WithHintf("Renewal opens %d days before the lease ends", s.Config.Leases.RenewalWindowDays).
				WithReportableDetails(map[string]interface{}{
					"end_date":     source.EndDate,
					"window_opens": windowOpen,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		number, err := s.LeaseRepo.NextLeaseNumber(ctx)
		if err != nil {
			return err
		}

		now := s.Clock.Now()
		startDate := source.EndDate.AddDate(0, 0, 1)
		terms := source.Terms
		if req.AdditionalTerms != "" {
			terms = terms + "\n" + req.AdditionalTerms
		}
		renewal = &lease.Lease{
			ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LEASE),
			LeaseNumber:       number,
			PropertyID:        source.PropertyID,
			LandlordID:        source.LandlordID,
			TenantID:          source.TenantID,
			StartDate:         startDate,
			EndDate:           startDate.AddDate(0, req.ExtensionMonths, 0),
			MonthlyRent:       lo.FromPtrOr(req.NewMonthlyRent, source.MonthlyRent),
			SecurityDeposit:   lo.FromPtrOr(req.NewSecurityDeposit, source.SecurityDeposit),
			PaymentDueDay:     source.PaymentDueDay,
			Terms:             terms,
			SpecialConditions: source.SpecialConditions,
			AutoRenew:         source.AutoRenew,
			LeaseStatus:       types.LeaseStatusPendingSignature,
			PreviousLeaseID:   &source.ID,
			BaseModel:         types.GetDefaultBaseModel(ctx, now),
		}
		if err := s.LeaseRepo.Create(ctx, renewal); err != nil {
			return err
		}

		// The source is superseded as soon as the renewal exists; the
		// renewal still has to collect its own signatures.
		source.LeaseStatus = types.LeaseStatusRenewed
		source.UpdatedAt = now
		source.UpdatedBy = types.GetUserID(ctx)
		return s.LeaseRepo.Update(ctx, source)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("lease renewed",
		"source_lease_id", req.LeaseID,
		"renewal_lease_id", renewal.ID,
		"renewal_lease_number", renewal.LeaseNumber,
	)
	return &dto.LeaseResponse{Lease: renewal}, nil
}

func (s *leaseService) ExpireLeases(ctx context.Context) (int, error) {
	today := s.Clock.Today()
	expired, err := s.LeaseRepo.ListExpiredAsOf(ctx, today)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, l := range expired {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		l.LeaseStatus = types.LeaseStatusExpired
		l.UpdatedAt = s.Clock.Now()
		if err := s.LeaseRepo.Update(ctx, l); err != nil {
			s.Logger.Errorw("failed to expire lease", "error", err, "lease_id", l.ID)
			continue
		}
		count++
	}

	if count > 0 {
		s.Logger.Infow("expired leases swept", "count", count, "as_of", today)
	}
	return count, nil
}

func (s *leaseService) GetLease(ctx context.Context, id string) (*dto.LeaseResponse, error) {
	l, err := s.LeaseRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sigs, err := s.LeaseRepo.ListSignatures(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.LeaseResponse{Lease: l, Signatures: sigs}, nil
}

func (s *leaseService) ListLeases(ctx context.Context, filter *types.LeaseFilter) ([]*dto.LeaseResponse, error) {
	leases, err := s.LeaseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return lo.Map(leases, func(l *lease.Lease, _ int) *dto.LeaseResponse {
		return &dto.LeaseResponse{Lease: l}
	}), nil
}
