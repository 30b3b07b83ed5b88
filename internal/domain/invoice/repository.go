package invoice

import (
	"context"
	"time"

	"github.com/rentflow/rentflow/internal/types"
)

// Repository defines the interface for invoice persistence operations.
type Repository interface {
	// Create persists a new invoice. Implementations must reject a second
	// invoice for the same (lease, billing month) with ErrAlreadyExists.
	Create(ctx context.Context, invoice *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	Update(ctx context.Context, invoice *Invoice) error
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// GetByLeaseAndMonth returns the invoice for a lease and billing month,
	// or ErrNotFound.
	GetByLeaseAndMonth(ctx context.Context, leaseID string, billingMonth time.Time) (*Invoice, error)

	// ListDueForOverdue returns invoices that are pending or partially paid,
	// past due as of the given date, and carry an outstanding balance.
	ListDueForOverdue(ctx context.Context, asOf time.Time) ([]*Invoice, error)

	// NextInvoiceNumber reserves the next invoice number for a billing month.
	NextInvoiceNumber(ctx context.Context, billingMonth time.Time) (string, error)
}
