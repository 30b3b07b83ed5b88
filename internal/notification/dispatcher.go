// Package notification delivers lifecycle events (invoice created, lease
// signed or terminated) to the affected parties. Delivery is best-effort:
// callers log failures and never let them roll back the triggering operation.
package notification

import (
	"context"

	"github.com/rentflow/rentflow/internal/domain/invoice"
	"github.com/rentflow/rentflow/internal/domain/lease"
	"github.com/rentflow/rentflow/internal/domain/user"
	"github.com/rentflow/rentflow/internal/email"
	"github.com/rentflow/rentflow/internal/logger"
)

// Dispatcher sends lifecycle notifications to tenants and landlords.
type Dispatcher interface {
	SendInvoiceCreatedToTenant(ctx context.Context, inv *invoice.Invoice, l *lease.Lease) error
	SendInvoiceCreatedToLandlord(ctx context.Context, inv *invoice.Invoice, l *lease.Lease) error
	SendLeaseActivated(ctx context.Context, l *lease.Lease) error
	SendLeaseTerminated(ctx context.Context, l *lease.Lease) error
}

type emailDispatcher struct {
	email    *email.Email
	userRepo user.Repository
	logger   *logger.Logger
}

// NewEmailDispatcher returns a Dispatcher backed by the email service.
func NewEmailDispatcher(emailSvc *email.Email, userRepo user.Repository, log *logger.Logger) Dispatcher {
	return &emailDispatcher{
		email:    emailSvc,
		userRepo: userRepo,
		logger:   log,
	}
}

func (d *emailDispatcher) SendInvoiceCreatedToTenant(ctx context.Context, inv *invoice.Invoice, l *lease.Lease) error {
	return d.sendInvoiceCreated(ctx, inv, l, l.TenantID)
}

func (d *emailDispatcher) SendInvoiceCreatedToLandlord(ctx context.Context, inv *invoice.Invoice, l *lease.Lease) error {
	return d.sendInvoiceCreated(ctx, inv, l, l.LandlordID)
}

func (d *emailDispatcher) sendInvoiceCreated(ctx context.Context, inv *invoice.Invoice, l *lease.Lease, userID string) error {
	recipient, err := d.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	return d.email.SendTemplatedEmail(ctx,
		recipient.Email,
		"New invoice "+inv.InvoiceNumber,
		"invoice-created.html",
		map[string]interface{}{
			"recipient_name": recipient.FullName,
			"invoice_number": inv.InvoiceNumber,
			"lease_number":   l.LeaseNumber,
			"total_amount":   inv.TotalAmount.String(),
			"due_date":       inv.DueDate.Format("2006-01-02"),
		},
	)
}

func (d *emailDispatcher) SendLeaseActivated(ctx context.Context, l *lease.Lease) error {
	return d.sendToParties(ctx, l, "Lease "+l.LeaseNumber+" is active", "lease-activated.html",
		map[string]interface{}{
			"lease_number": l.LeaseNumber,
			"start_date":   l.StartDate.Format("2006-01-02"),
			"end_date":     l.EndDate.Format("2006-01-02"),
		})
}

func (d *emailDispatcher) SendLeaseTerminated(ctx context.Context, l *lease.Lease) error {
	return d.sendToParties(ctx, l, "Lease "+l.LeaseNumber+" terminated", "lease-terminated.html",
		map[string]interface{}{
			"lease_number":     l.LeaseNumber,
			"termination_date": l.UpdatedAt.Format("2006-01-02"),
		})
}

// sendToParties notifies both lease parties; a failure for one party does not
// skip the other.
func (d *emailDispatcher) sendToParties(ctx context.Context, l *lease.Lease, subject, tmpl string, data map[string]interface{}) error {
	var lastErr error
	for _, userID := range []string{l.TenantID, l.LandlordID} {
		recipient, err := d.userRepo.Get(ctx, userID)
		if err != nil {
			d.logger.Errorw("failed to resolve notification recipient",
				"error", err,
				"lease_id", l.ID,
				"user_id", userID,
			)
			lastErr = err
			continue
		}

		fields := map[string]interface{}{"recipient_name": recipient.FullName}
		for k, v := range data {
			fields[k] = v
		}

		if err := d.email.SendTemplatedEmail(ctx, recipient.Email, subject, tmpl, fields); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
