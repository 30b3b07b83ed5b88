package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/rentflow/rentflow/internal/config"
	"github.com/rentflow/rentflow/internal/domain/lease"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

type leaseRepository struct {
	client *Client
	cfg    *config.Configuration
}

// NewLeaseRepository returns a postgres-backed lease repository.
func NewLeaseRepository(client *Client, cfg *config.Configuration) lease.Repository {
	return &leaseRepository{client: client, cfg: cfg}
}

func (r *leaseRepository) Create(ctx context.Context, l *lease.Lease) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if err := r.client.Conn(ctx).Create(l).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create lease").
			WithReportableDetails(map[string]interface{}{
				"lease_id":     l.ID,
				"lease_number": l.LeaseNumber,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *leaseRepository) Get(ctx context.Context, id string) (*lease.Lease, error) {
	var l lease.Lease
	if err := r.client.Conn(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, notFound(err, "Lease not found", map[string]interface{}{"lease_id": id})
	}
	return &l, nil
}

func (r *leaseRepository) GetByNumber(ctx context.Context, leaseNumber string) (*lease.Lease, error) {
	var l lease.Lease
	if err := r.client.Conn(ctx).Where("lease_number = ?", leaseNumber).First(&l).Error; err != nil {
		return nil, notFound(err, "Lease not found", map[string]interface{}{"lease_number": leaseNumber})
	}
	return &l, nil
}

func (r *leaseRepository) Update(ctx context.Context, l *lease.Lease) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if err := r.client.Conn(ctx).Save(l).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update lease").
			WithReportableDetails(map[string]interface{}{"lease_id": l.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *leaseRepository) List(ctx context.Context, filter *types.LeaseFilter) ([]*lease.Lease, error) {
	if filter == nil {
		filter = types.NewLeaseFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	q := r.client.Conn(ctx).Model(&lease.Lease{}).
		Where("status = ?", filter.GetStatus())
	if len(filter.LeaseIDs) > 0 {
		q = q.Where("id IN ?", filter.LeaseIDs)
	}
	if len(filter.PropertyIDs) > 0 {
		q = q.Where("property_id IN ?", filter.PropertyIDs)
	}
	if len(filter.TenantIDs) > 0 {
		q = q.Where("tenant_id IN ?", filter.TenantIDs)
	}
	if len(filter.LeaseStatuses) > 0 {
		q = q.Where("lease_status IN ?", filter.LeaseStatuses)
	}
	if filter.ActiveOn != nil {
		q = q.Where("lease_status = ?", types.LeaseStatusActive).
			Where("start_date <= ? AND end_date >= ?", *filter.ActiveOn, *filter.ActiveOn)
	}
	if !filter.IsUnlimited() {
		q = q.Limit(filter.GetLimit()).Offset(filter.GetOffset())
	}

	var leases []*lease.Lease
	if err := q.Order("created_at ASC").Find(&leases).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list leases").
			Mark(ierr.ErrDatabase)
	}
	return leases, nil
}

func (r *leaseRepository) ListActiveOn(ctx context.Context, date time.Time) ([]*lease.Lease, error) {
	filter := types.NewNoLimitLeaseFilter()
	filter.ActiveOn = &date
	return r.List(ctx, filter)
}

func (r *leaseRepository) ListExpiredAsOf(ctx context.Context, asOf time.Time) ([]*lease.Lease, error) {
	var leases []*lease.Lease
	err := r.client.Conn(ctx).
		Where("status = ?", types.StatusPublished).
		Where("lease_status = ?", types.LeaseStatusActive).
		Where("end_date < ?", asOf).
		Find(&leases).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list expired leases").
			Mark(ierr.ErrDatabase)
	}
	return leases, nil
}

func (r *leaseRepository) CountOpenByApplication(ctx context.Context, applicationID string) (int, error) {
	var count int64
	err := r.client.Conn(ctx).Model(&lease.Lease{}).
		Where("application_id = ?", applicationID).
		Where("lease_status IN ?", []types.LeaseStatus{
			types.LeaseStatusPendingSignature,
			types.LeaseStatusActive,
		}).
		Count(&count).Error
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count leases for application").
			WithReportableDetails(map[string]interface{}{"application_id": applicationID}).
			Mark(ierr.ErrDatabase)
	}
	return int(count), nil
}

func (r *leaseRepository) UpsertSignature(ctx context.Context, sig *lease.LeaseSignature) error {
	if err := sig.Validate(); err != nil {
		return err
	}
	return r.client.WithTx(ctx, func(ctx context.Context) error {
		tx := r.client.Conn(ctx)

		var existing lease.LeaseSignature
		err := tx.Where("lease_id = ? AND signer_role = ?", sig.LeaseID, sig.SignerRole).
			First(&existing).Error
		if err == nil {
			existing.UserID = sig.UserID
			existing.SignatureData = sig.SignatureData
			existing.SignedAt = sig.SignedAt
			existing.IPAddress = sig.IPAddress
			existing.UpdatedAt = sig.UpdatedAt
			existing.UpdatedBy = sig.UpdatedBy
			return tx.Save(&existing).Error
		}

		if err := tx.Create(sig).Error; err != nil {
			return ierr.WithError(err).
				WithHint("Failed to record signature").
				WithReportableDetails(map[string]interface{}{
					"lease_id":    sig.LeaseID,
					"signer_role": sig.SignerRole,
				}).
				Mark(ierr.ErrDatabase)
		}
		return nil
	})
}

func (r *leaseRepository) ListSignatures(ctx context.Context, leaseID string) ([]*lease.LeaseSignature, error) {
	var sigs []*lease.LeaseSignature
	err := r.client.Conn(ctx).
		Where("lease_id = ?", leaseID).
		Order("signed_at ASC").
		Find(&sigs).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list lease signatures").
			WithReportableDetails(map[string]interface{}{"lease_id": leaseID}).
			Mark(ierr.ErrDatabase)
	}
	return sigs, nil
}

func (r *leaseRepository) NextLeaseNumber(ctx context.Context) (string, error) {
	period := fmt.Sprintf("%d", time.Now().UTC().Year())
	return r.client.nextNumber(ctx,
		sequenceScopeLease,
		period,
		r.cfg.Billing.LeaseNumberPrefix,
		r.cfg.Billing.NumberSeparator,
		r.cfg.Billing.NumberSuffixLength,
	)
}
