package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/rentflow/rentflow/internal/domain/invoice"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository, enforcing the one
// invoice per (lease, billing month) constraint the way the database does.
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	mu       sync.Mutex
	sequence int
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store.
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	copied := *inv
	return &copied
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").
			WithHint("Invoice cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, err := s.getByLeaseAndMonth(ctx, inv.LeaseID, inv.BillingMonth); err == nil && existing != nil {
		return ierr.NewError("invoice already exists for billing month").
			WithHint("An invoice already exists for this lease and billing month").
			WithReportableDetails(map[string]interface{}{
				"lease_id":      inv.LeaseID,
				"billing_month": inv.BillingMonth,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			WithReportableDetails(map[string]interface{}{
				"id": inv.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("invoice not found").
			WithHint("Invoice not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").
			WithHint("Invoice cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			WithReportableDetails(map[string]interface{}{
				"id": inv.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}

	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	invoices = paginate(invoices, filter.QueryFilter)
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) GetByLeaseAndMonth(ctx context.Context, leaseID string, billingMonth time.Time) (*invoice.Invoice, error) {
	inv, err := s.getByLeaseAndMonth(ctx, leaseID, billingMonth)
	if err != nil {
		return nil, err
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) getByLeaseAndMonth(ctx context.Context, leaseID string, billingMonth time.Time) (*invoice.Invoice, error) {
	month := types.BillingMonthOf(billingMonth)
	invoices, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.LeaseID == leaseID && inv.BillingMonth.Equal(month)
	}, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to look up invoice").
			Mark(ierr.ErrDatabase)
	}
	if len(invoices) == 0 {
		return nil, ierr.NewError("invoice not found").
			WithHint("No invoice exists for this lease and billing month").
			WithReportableDetails(map[string]interface{}{
				"lease_id":      leaseID,
				"billing_month": month,
			}).
			Mark(ierr.ErrNotFound)
	}
	return invoices[0], nil
}

func (s *InMemoryInvoiceStore) ListDueForOverdue(ctx context.Context, asOf time.Time) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		if inv.Status != types.StatusPublished {
			return false
		}
		if inv.InvoiceStatus != types.InvoiceStatusPending && inv.InvoiceStatus != types.InvoiceStatusPartiallyPaid {
			return false
		}
		return inv.DueDate.Before(asOf) && inv.RemainingAmount().IsPositive()
	}, invoiceSortFn)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list overdue candidates").
			Mark(ierr.ErrDatabase)
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) NextInvoiceNumber(ctx context.Context, billingMonth time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	return fmt.Sprintf("INV-%s-%05d", types.BillingMonthOf(billingMonth).Format("200601"), s.sequence), nil
}

func invoiceFilterFn(_ context.Context, inv *invoice.Invoice, filter interface{}) bool {
	if inv == nil {
		return false
	}

	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}

	if inv.Status != f.GetStatus() {
		return false
	}
	if len(f.InvoiceIDs) > 0 && !lo.Contains(f.InvoiceIDs, inv.ID) {
		return false
	}
	if len(f.LeaseIDs) > 0 && !lo.Contains(f.LeaseIDs, inv.LeaseID) {
		return false
	}
	if len(f.InvoiceStatuses) > 0 && !lo.Contains(f.InvoiceStatuses, inv.InvoiceStatus) {
		return false
	}
	if f.BillingMonth != nil && !inv.BillingMonth.Equal(types.BillingMonthOf(*f.BillingMonth)) {
		return false
	}
	if f.DueBefore != nil && !inv.DueDate.Before(*f.DueBefore) {
		return false
	}
	return true
}

func invoiceSortFn(i, j *invoice.Invoice) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

// Clear clears the invoice store.
func (s *InMemoryInvoiceStore) Clear() {
	s.InMemoryStore.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence = 0
}
