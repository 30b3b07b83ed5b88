package dispute

import "context"

// Repository defines the interface for payment dispute persistence operations.
type Repository interface {
	Create(ctx context.Context, dispute *PaymentDispute) error
	Get(ctx context.Context, id string) (*PaymentDispute, error)
	Update(ctx context.Context, dispute *PaymentDispute) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*PaymentDispute, error)

	// GetOpenByInvoice returns the open dispute for an invoice, or ErrNotFound.
	GetOpenByInvoice(ctx context.Context, invoiceID string) (*PaymentDispute, error)
}
