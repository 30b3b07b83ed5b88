package service

import (
	"context"
	"time"

	"github.com/rentflow/rentflow/internal/api/dto"
	"github.com/rentflow/rentflow/internal/domain/dispute"
	"github.com/rentflow/rentflow/internal/domain/payment"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

const paymentLockTimeout = 30 * time.Second

// PaymentService reconciles payments and disputes against invoices.
type PaymentService interface {
	// ApplyPayment records a completed payment and recomputes the invoice
	// status. Applications are serialized per invoice so two concurrent
	// payments cannot both pass the remaining-balance check.
	ApplyPayment(ctx context.Context, req *dto.ApplyPaymentRequest) (*dto.PaymentResponse, error)

	// RaiseDispute opens a dispute and moves the invoice to Disputed. At
	// most one open dispute may exist per invoice.
	RaiseDispute(ctx context.Context, req *dto.RaiseDisputeRequest) (*dto.DisputeResponse, error)

	// ResolveDispute closes an open dispute and restores the invoice status
	// to the value derived from its amounts and due date.
	ResolveDispute(ctx context.Context, req *dto.ResolveDisputeRequest) (*dto.DisputeResponse, error)

	ListPayments(ctx context.Context, invoiceID string) ([]*payment.Payment, error)
}

type paymentService struct {
	ServiceParams
}

// NewPaymentService creates a new payment service.
func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

func (s *paymentService) ApplyPayment(ctx context.Context, req *dto.ApplyPaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp *dto.PaymentResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		key := types.GenerateLockKey(ctx, types.LockScopePaymentApply, map[string]interface{}{
			"invoice_id": req.InvoiceID,
		})
		if err := s.DB.LockKey(ctx, key, paymentLockTimeout); err != nil {
			return err
		}

		inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
		if err != nil {
			return err
		}

		if s.Config.Billing.BlockPaymentsOnDispute && inv.InvoiceStatus == types.InvoiceStatusDisputed {
			return ierr.NewError("invoice is disputed").
				WithHint("Payments are blocked while the invoice has an open dispute").
				WithReportableDetails(map[string]interface{}{
					"invoice_id": inv.ID,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		remaining := inv.RemainingAmount()
		if req.Amount.GreaterThan(remaining) {
			return ierr.NewError("amount exceeds remaining balance").
				WithHint("Payment amount cannot exceed the invoice's remaining balance").
				WithReportableDetails(map[string]interface{}{
					"invoice_id":       inv.ID,
					"amount":           req.Amount,
					"remaining_amount": remaining,
				}).
				Mark(ierr.ErrValidation)
		}

		now := s.Clock.Now()
		p := &payment.Payment{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
			InvoiceID:     inv.ID,
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
			PaymentDate:   now,
			PaymentStatus: types.PaymentStatusCompleted,
			Notes:         req.Notes,
			BaseModel:     types.GetDefaultBaseModel(ctx, now),
		}
		if err := s.PaymentRepo.Create(ctx, p); err != nil {
			return err
		}

		inv.PaidAmount = inv.PaidAmount.Add(req.Amount)
		if inv.RemainingAmount().IsZero() {
			inv.InvoiceStatus = types.InvoiceStatusPaid
		} else {
			inv.InvoiceStatus = types.InvoiceStatusPartiallyPaid
		}
		inv.UpdatedAt = now
		inv.UpdatedBy = types.GetUserID(ctx)
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}

		resp = &dto.PaymentResponse{Payment: p, InvoiceStatus: inv.InvoiceStatus}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("payment applied",
		"payment_id", resp.Payment.ID,
		"invoice_id", req.InvoiceID,
		"amount", req.Amount,
		"invoice_status", resp.InvoiceStatus,
	)
	return resp, nil
}

func (s *paymentService) RaiseDispute(ctx context.Context, req *dto.RaiseDisputeRequest) (*dto.DisputeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp *dto.DisputeResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
		if err != nil {
			return err
		}

		_, err = s.DisputeRepo.GetOpenByInvoice(ctx, inv.ID)
		if err == nil || inv.InvoiceStatus == types.InvoiceStatusDisputed {
			return ierr.NewError("invoice already has an open dispute").
				WithHint("This invoice already has an open dispute").
				WithReportableDetails(map[string]interface{}{
					"invoice_id": inv.ID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		if !ierr.IsNotFound(err) {
			return err
		}

		now := s.Clock.Now()
		d := &dispute.PaymentDispute{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DISPUTE),
			InvoiceID:     inv.ID,
			RaisedBy:      types.GetUserID(ctx),
			Reason:        req.Reason,
			Description:   req.Description,
			DisputeStatus: types.DisputeStatusPending,
			BaseModel:     types.GetDefaultBaseModel(ctx, now),
		}
		if err := s.DisputeRepo.Create(ctx, d); err != nil {
			return err
		}

		inv.InvoiceStatus = types.InvoiceStatusDisputed
		inv.UpdatedAt = now
		inv.UpdatedBy = types.GetUserID(ctx)
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}

		resp = &dto.DisputeResponse{PaymentDispute: d, InvoiceStatus: inv.InvoiceStatus}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("dispute raised",
		"dispute_id", resp.PaymentDispute.ID,
		"invoice_id", req.InvoiceID,
		"raised_by", resp.PaymentDispute.RaisedBy,
	)
	return resp, nil
}

func (s *paymentService) ResolveDispute(ctx context.Context, req *dto.ResolveDisputeRequest) (*dto.DisputeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp *dto.DisputeResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		d, err := s.DisputeRepo.Get(ctx, req.DisputeID)
		if err != nil {
			return err
		}
		if !d.IsOpen() {
			return ierr.NewError("dispute is already closed").
				WithHint("This dispute has already been resolved").
				WithReportableDetails(map[string]interface{}{
					"dispute_id":     d.ID,
					"dispute_status": d.DisputeStatus,
				}).
				Mark(ierr.ErrNotFound)
		}

		now := s.Clock.Now()
		d.DisputeStatus = req.NewStatus
		d.Resolution = req.Resolution
		d.ResolvedBy = types.GetUserID(ctx)
		d.ResolvedAt = &now
		d.UpdatedAt = now
		d.UpdatedBy = types.GetUserID(ctx)
		if err := s.DisputeRepo.Update(ctx, d); err != nil {
			return err
		}

		inv, err := s.InvoiceRepo.Get(ctx, d.InvoiceID)
		if err != nil {
			return err
		}
		inv.InvoiceStatus = inv.DerivedStatus(now)
		inv.UpdatedAt = now
		inv.UpdatedBy = types.GetUserID(ctx)
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}

		resp = &dto.DisputeResponse{PaymentDispute: d, InvoiceStatus: inv.InvoiceStatus}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("dispute resolved",
		"dispute_id", req.DisputeID,
		"new_status", req.NewStatus,
		"invoice_status", resp.InvoiceStatus,
	)
	return resp, nil
}

func (s *paymentService) ListPayments(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	return s.PaymentRepo.ListByInvoice(ctx, invoiceID)
}
