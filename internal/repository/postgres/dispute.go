package postgres

import (
	"context"

	"github.com/rentflow/rentflow/internal/domain/dispute"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

type disputeRepository struct {
	client *Client
}

// NewDisputeRepository returns a postgres-backed payment dispute repository.
func NewDisputeRepository(client *Client) dispute.Repository {
	return &disputeRepository{client: client}
}

func (r *disputeRepository) Create(ctx context.Context, d *dispute.PaymentDispute) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := r.client.Conn(ctx).Create(d).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create dispute").
			WithReportableDetails(map[string]interface{}{
				"dispute_id": d.ID,
				"invoice_id": d.InvoiceID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *disputeRepository) Get(ctx context.Context, id string) (*dispute.PaymentDispute, error) {
	var d dispute.PaymentDispute
	if err := r.client.Conn(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, notFound(err, "Dispute not found", map[string]interface{}{"dispute_id": id})
	}
	return &d, nil
}

func (r *disputeRepository) Update(ctx context.Context, d *dispute.PaymentDispute) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := r.client.Conn(ctx).Save(d).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update dispute").
			WithReportableDetails(map[string]interface{}{"dispute_id": d.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *disputeRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*dispute.PaymentDispute, error) {
	var disputes []*dispute.PaymentDispute
	err := r.client.Conn(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&disputes).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list disputes").
			WithReportableDetails(map[string]interface{}{"invoice_id": invoiceID}).
			Mark(ierr.ErrDatabase)
	}
	return disputes, nil
}

func (r *disputeRepository) GetOpenByInvoice(ctx context.Context, invoiceID string) (*dispute.PaymentDispute, error) {
	var d dispute.PaymentDispute
	err := r.client.Conn(ctx).
		Where("invoice_id = ? AND dispute_status = ?", invoiceID, types.DisputeStatusPending).
		First(&d).Error
	if err != nil {
		return nil, notFound(err, "No open dispute for invoice", map[string]interface{}{"invoice_id": invoiceID})
	}
	return &d, nil
}
