package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rentflow/rentflow/internal/config"
	"github.com/rentflow/rentflow/internal/domain/invoice"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

type invoiceRepository struct {
	client *Client
	cfg    *config.Configuration
}

// NewInvoiceRepository returns a postgres-backed invoice repository.
func NewInvoiceRepository(client *Client, cfg *config.Configuration) invoice.Repository {
	return &invoiceRepository{client: client, cfg: cfg}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	if err := r.client.Conn(ctx).Create(inv).Error; err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("An invoice already exists for this lease and billing month").
				WithReportableDetails(map[string]interface{}{
					"lease_id":      inv.LeaseID,
					"billing_month": inv.BillingMonth,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			WithReportableDetails(map[string]interface{}{
				"invoice_number": inv.InvoiceNumber,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// isUniqueViolation reports whether err is a postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	// gorm may surface the dialect translation instead of the raw pg error
	return strings.Contains(err.Error(), "duplicate key")
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	if err := r.client.Conn(ctx).Where("id = ?", id).First(&inv).Error; err != nil {
		return nil, notFound(err, "Invoice not found", map[string]interface{}{"invoice_id": id})
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	if err := r.client.Conn(ctx).Save(inv).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			WithReportableDetails(map[string]interface{}{"invoice_id": inv.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	q := r.client.Conn(ctx).Model(&invoice.Invoice{}).
		Where("status = ?", filter.GetStatus())
	if len(filter.InvoiceIDs) > 0 {
		q = q.Where("id IN ?", filter.InvoiceIDs)
	}
	if len(filter.LeaseIDs) > 0 {
		q = q.Where("lease_id IN ?", filter.LeaseIDs)
	}
	if len(filter.InvoiceStatuses) > 0 {
		q = q.Where("invoice_status IN ?", filter.InvoiceStatuses)
	}
	if filter.BillingMonth != nil {
		q = q.Where("billing_month = ?", types.BillingMonthOf(*filter.BillingMonth))
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date < ?", *filter.DueBefore)
	}
	if !filter.IsUnlimited() {
		q = q.Limit(filter.GetLimit()).Offset(filter.GetOffset())
	}

	var invoices []*invoice.Invoice
	if err := q.Order("billing_month ASC, created_at ASC").Find(&invoices).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) GetByLeaseAndMonth(ctx context.Context, leaseID string, billingMonth time.Time) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.client.Conn(ctx).
		Where("lease_id = ? AND billing_month = ?", leaseID, types.BillingMonthOf(billingMonth)).
		First(&inv).Error
	if err != nil {
		return nil, notFound(err, "Invoice not found for billing month", map[string]interface{}{
			"lease_id":      leaseID,
			"billing_month": billingMonth,
		})
	}
	return &inv, nil
}

func (r *invoiceRepository) ListDueForOverdue(ctx context.Context, asOf time.Time) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	err := r.client.Conn(ctx).
		Where("status = ?", types.StatusPublished).
		Where("invoice_status IN ?", []types.InvoiceStatus{
			types.InvoiceStatusPending,
			types.InvoiceStatusPartiallyPaid,
		}).
		Where("due_date < ?", asOf).
		Where("total_amount > paid_amount").
		Find(&invoices).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices due for overdue sweep").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) NextInvoiceNumber(ctx context.Context, billingMonth time.Time) (string, error) {
	period := types.BillingMonthOf(billingMonth).Format("200601")
	return r.client.nextNumber(ctx,
		sequenceScopeInvoice,
		period,
		r.cfg.Billing.InvoiceNumberPrefix,
		r.cfg.Billing.NumberSeparator,
		r.cfg.Billing.NumberSuffixLength,
	)
}
