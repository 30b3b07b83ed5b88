package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rentflow/rentflow/internal/api/dto"
	"github.com/rentflow/rentflow/internal/domain/invoice"
	"github.com/rentflow/rentflow/internal/domain/lease"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

const generationLockTimeout = 30 * time.Second

// InvoiceService owns recurring invoice generation and the overdue sweep.
type InvoiceService interface {
	// RunDaily is the scheduled entrypoint: expiry sweep and overdue sweep
	// run every day; generation runs only on the first of the month (or when
	// forced). Per-lease failures are logged and isolated, never propagated.
	RunDaily(ctx context.Context, force bool) (*dto.GenerationRunResponse, error)

	// SweepOverdue flags pending and partially paid invoices whose due date
	// has passed with an outstanding balance. Idempotent.
	SweepOverdue(ctx context.Context, asOf time.Time) (int, error)

	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) ([]*dto.InvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
	leaseService LeaseService
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		leaseService:  NewLeaseService(params),
	}
}

func (s *invoiceService) RunDaily(ctx context.Context, force bool) (*dto.GenerationRunResponse, error) {
	today := s.Clock.Today()
	resp := &dto.GenerationRunResponse{RunDate: today.Format("2006-01-02")}

	// Leases past their end date must flip to Expired before generation so
	// they are excluded from the active set.
	expired, err := s.leaseService.ExpireLeases(ctx)
	if err != nil {
		return resp, err
	}
	resp.LeasesExpired = expired

	// The previous period's invoices must carry a correct status before new
	// ones are cut.
	swept, err := s.SweepOverdue(ctx, today)
	if err != nil {
		return resp, err
	}
	resp.OverdueSwept = swept

	if today.Day() != 1 && !force {
		s.Logger.Debugw("skipping invoice generation, not the first of the month",
			"run_date", resp.RunDate)
		return resp, nil
	}
	resp.GenerationRan = true

	billingMonth := types.BillingMonthOf(today)
	leases, err := s.LeaseRepo.ListActiveOn(ctx, today)
	if err != nil {
		return resp, err
	}
	resp.ProcessedLeases = len(leases)

	for _, l := range leases {
		if err := ctx.Err(); err != nil {
			s.Logger.Warnw("invoice generation cancelled",
				"run_date", resp.RunDate,
				"generated", resp.Generated,
			)
			return resp, err
		}

		inv, created, err := s.generateForLease(ctx, l, billingMonth, today)
		if err != nil {
			// One lease's failure must not block the rest of the run.
			s.Logger.Errorw("failed to generate invoice for lease",
				"error", err,
				"lease_id", l.ID,
				"billing_month", billingMonth,
			)
			resp.Failed++
			continue
		}
		if !created {
			resp.Skipped++
			continue
		}
		resp.Generated++

		s.dispatchInvoiceCreated(ctx, inv, l)
	}

	s.Logger.Infow("invoice generation run completed",
		"run_date", resp.RunDate,
		"generated", resp.Generated,
		"skipped", resp.Skipped,
		"failed", resp.Failed,
	)
	return resp, nil
}

// generateForLease creates the invoice for one lease and billing month. The
// advisory lock plus the unique index on (lease_id, billing_month) make the
// check-then-create safe against a manual trigger racing the scheduled run.
func (s *invoiceService) generateForLease(ctx context.Context, l *lease.Lease, billingMonth, today time.Time) (*invoice.Invoice, bool, error) {
	var (
		inv     *invoice.Invoice
		created bool
	)
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		key := types.GenerateLockKey(ctx, types.LockScopeInvoiceGeneration, map[string]interface{}{
			"lease_id":      l.ID,
			"billing_month": billingMonth.Format("2006-01"),
		})
		if err := s.DB.LockKey(ctx, key, generationLockTimeout); err != nil {
			return err
		}

		existing, err := s.InvoiceRepo.GetByLeaseAndMonth(ctx, l.ID, billingMonth)
		if err == nil {
			inv = existing
			return nil
		}
		if !ierr.IsNotFound(err) {
			return err
		}

		number, err := s.InvoiceRepo.NextInvoiceNumber(ctx, billingMonth)
		if err != nil {
			return err
		}

		inv = &invoice.Invoice{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
			InvoiceNumber: number,
			LeaseID:       l.ID,
			BillingMonth:  billingMonth,
			IssueDate:     today,
			DueDate:       invoice.ComputeDueDate(billingMonth, l.PaymentDueDay),
			TotalAmount:   l.MonthlyRent,
			PaidAmount:    decimal.Zero,
			InvoiceStatus: types.InvoiceStatusPending,
			BaseModel:     types.GetDefaultBaseModel(ctx, s.Clock.Now()),
		}
		if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
			if ierr.IsAlreadyExists(err) {
				// Lost the race to another run; treat as already invoiced.
				return nil
			}
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return inv, created, nil
}

// dispatchInvoiceCreated notifies both parties. Failures are logged and do
// not roll back the invoice or abort the run.
func (s *invoiceService) dispatchInvoiceCreated(ctx context.Context, inv *invoice.Invoice, l *lease.Lease) {
	if err := s.Notifier.SendInvoiceCreatedToTenant(ctx, inv, l); err != nil {
		s.Logger.Errorw("failed to notify tenant of new invoice",
			"error", err, "invoice_id", inv.ID, "lease_id", l.ID)
	}
	if err := s.Notifier.SendInvoiceCreatedToLandlord(ctx, inv, l); err != nil {
		s.Logger.Errorw("failed to notify landlord of new invoice",
			"error", err, "invoice_id", inv.ID, "lease_id", l.ID)
	}
}

func (s *invoiceService) SweepOverdue(ctx context.Context, asOf time.Time) (int, error) {
	invoices, err := s.InvoiceRepo.ListDueForOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, inv := range invoices {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		inv.InvoiceStatus = types.InvoiceStatusOverdue
		inv.UpdatedAt = s.Clock.Now()
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			s.Logger.Errorw("failed to mark invoice overdue",
				"error", err, "invoice_id", inv.ID)
			continue
		}
		count++
	}

	if count > 0 {
		s.Logger.Infow("overdue invoices swept", "count", count, "as_of", asOf)
	}
	return count, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) ([]*dto.InvoiceResponse, error) {
	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = dto.NewInvoiceResponse(inv)
	}
	return resp, nil
}
