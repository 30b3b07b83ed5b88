package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/rentflow/rentflow/internal/domain/dispute"
	ierr "github.com/rentflow/rentflow/internal/errors"
)

// InMemoryDisputeStore implements dispute.Repository.
type InMemoryDisputeStore struct {
	*InMemoryStore[*dispute.PaymentDispute]
}

// NewInMemoryDisputeStore creates a new in-memory dispute store.
func NewInMemoryDisputeStore() *InMemoryDisputeStore {
	return &InMemoryDisputeStore{
		InMemoryStore: NewInMemoryStore[*dispute.PaymentDispute](),
	}
}

func copyDispute(d *dispute.PaymentDispute) *dispute.PaymentDispute {
	if d == nil {
		return nil
	}

	copied := *d
	if d.ResolvedAt != nil {
		copied.ResolvedAt = lo.ToPtr(*d.ResolvedAt)
	}
	return &copied
}

func (s *InMemoryDisputeStore) Create(ctx context.Context, d *dispute.PaymentDispute) error {
	if d == nil {
		return ierr.NewError("dispute cannot be nil").
			WithHint("Dispute cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := s.InMemoryStore.Create(ctx, d.ID, copyDispute(d)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create dispute").
			WithReportableDetails(map[string]interface{}{
				"id": d.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *InMemoryDisputeStore) Get(ctx context.Context, id string) (*dispute.PaymentDispute, error) {
	d, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("dispute not found").
			WithHint("Dispute not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyDispute(d), nil
}

func (s *InMemoryDisputeStore) Update(ctx context.Context, d *dispute.PaymentDispute) error {
	if d == nil {
		return ierr.NewError("dispute cannot be nil").
			WithHint("Dispute cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := s.InMemoryStore.Update(ctx, d.ID, copyDispute(d)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update dispute").
			WithReportableDetails(map[string]interface{}{
				"id": d.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *InMemoryDisputeStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*dispute.PaymentDispute, error) {
	disputes, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, d *dispute.PaymentDispute, _ interface{}) bool {
		return d.InvoiceID == invoiceID
	}, func(i, j *dispute.PaymentDispute) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list disputes").
			Mark(ierr.ErrDatabase)
	}
	return lo.Map(disputes, func(d *dispute.PaymentDispute, _ int) *dispute.PaymentDispute {
		return copyDispute(d)
	}), nil
}

func (s *InMemoryDisputeStore) GetOpenByInvoice(ctx context.Context, invoiceID string) (*dispute.PaymentDispute, error) {
	disputes, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, d *dispute.PaymentDispute, _ interface{}) bool {
		return d.InvoiceID == invoiceID && d.IsOpen()
	}, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to look up open dispute").
			Mark(ierr.ErrDatabase)
	}
	if len(disputes) == 0 {
		return nil, ierr.NewError("no open dispute for invoice").
			WithHint("No open dispute exists for this invoice").
			WithReportableDetails(map[string]interface{}{
				"invoice_id": invoiceID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyDispute(disputes[0]), nil
}
