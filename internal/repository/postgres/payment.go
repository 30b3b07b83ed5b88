package postgres

import (
	"context"

	"github.com/rentflow/rentflow/internal/domain/payment"
	ierr "github.com/rentflow/rentflow/internal/errors"
)

type paymentRepository struct {
	client *Client
}

// NewPaymentRepository returns a postgres-backed payment repository.
func NewPaymentRepository(client *Client) payment.Repository {
	return &paymentRepository{client: client}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := r.client.Conn(ctx).Create(p).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create payment").
			WithReportableDetails(map[string]interface{}{
				"payment_id": p.ID,
				"invoice_id": p.InvoiceID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	if err := r.client.Conn(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err, "Payment not found", map[string]interface{}{"payment_id": id})
	}
	return &p, nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	err := r.client.Conn(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&payments).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			WithReportableDetails(map[string]interface{}{"invoice_id": invoiceID}).
			Mark(ierr.ErrDatabase)
	}
	return payments, nil
}
