package postgres

import (
	"context"

	"github.com/rentflow/rentflow/internal/domain/application"
	"github.com/rentflow/rentflow/internal/domain/dispute"
	"github.com/rentflow/rentflow/internal/domain/invoice"
	"github.com/rentflow/rentflow/internal/domain/lease"
	"github.com/rentflow/rentflow/internal/domain/payment"
	"github.com/rentflow/rentflow/internal/domain/user"
	ierr "github.com/rentflow/rentflow/internal/errors"
)

// Migrate creates or updates the schema for every persisted entity. The
// unique indexes declared on the models, notably invoices
// (lease_id, billing_month) and lease_signatures (lease_id, signer_role),
// are what make the generation job's check-then-create safe against races.
func (c *Client) Migrate(ctx context.Context) error {
	err := c.db.WithContext(ctx).AutoMigrate(
		&user.User{},
		&application.RentalApplication{},
		&lease.Lease{},
		&lease.LeaseSignature{},
		&invoice.Invoice{},
		&payment.Payment{},
		&dispute.PaymentDispute{},
		&NumberSequence{},
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Schema migration failed").
			Mark(ierr.ErrDatabase)
	}

	// At most one open dispute per invoice.
	err = c.db.WithContext(ctx).Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_disputes_open_invoice
		ON payment_disputes (invoice_id)
		WHERE dispute_status = 'pending'
	`).Error
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create open-dispute uniqueness index").
			Mark(ierr.ErrDatabase)
	}

	c.log.Infow("schema migration completed")
	return nil
}
