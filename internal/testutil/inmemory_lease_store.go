package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/rentflow/rentflow/internal/domain/lease"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

// InMemoryLeaseStore implements lease.Repository.
type InMemoryLeaseStore struct {
	*InMemoryStore[*lease.Lease]

	mu         sync.Mutex
	signatures map[string][]*lease.LeaseSignature
	sequence   int
}

// NewInMemoryLeaseStore creates a new in-memory lease store.
func NewInMemoryLeaseStore() *InMemoryLeaseStore {
	return &InMemoryLeaseStore{
		InMemoryStore: NewInMemoryStore[*lease.Lease](),
		signatures:    make(map[string][]*lease.LeaseSignature),
	}
}

func copyLease(l *lease.Lease) *lease.Lease {
	if l == nil {
		return nil
	}

	copied := *l
	if l.SignedDate != nil {
		copied.SignedDate = lo.ToPtr(*l.SignedDate)
	}
	if l.PreviousLeaseID != nil {
		copied.PreviousLeaseID = lo.ToPtr(*l.PreviousLeaseID)
	}
	return &copied
}

func copySignature(s *lease.LeaseSignature) *lease.LeaseSignature {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}

func (s *InMemoryLeaseStore) Create(ctx context.Context, l *lease.Lease) error {
	if l == nil {
		return ierr.NewError("lease cannot be nil").
			WithHint("Lease cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := s.InMemoryStore.Create(ctx, l.ID, copyLease(l)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create lease").
			WithReportableDetails(map[string]interface{}{
				"id": l.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *InMemoryLeaseStore) Get(ctx context.Context, id string) (*lease.Lease, error) {
	l, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("lease not found").
			WithHint("Lease not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyLease(l), nil
}

func (s *InMemoryLeaseStore) GetByNumber(ctx context.Context, leaseNumber string) (*lease.Lease, error) {
	leases, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, l *lease.Lease, _ interface{}) bool {
		return l.LeaseNumber == leaseNumber
	}, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to look up lease by number").
			Mark(ierr.ErrDatabase)
	}
	if len(leases) == 0 {
		return nil, ierr.NewError("lease not found").
			WithHint("Lease not found").
			WithReportableDetails(map[string]interface{}{
				"lease_number": leaseNumber,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyLease(leases[0]), nil
}

func (s *InMemoryLeaseStore) Update(ctx context.Context, l *lease.Lease) error {
	if l == nil {
		return ierr.NewError("lease cannot be nil").
			WithHint("Lease cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := s.InMemoryStore.Update(ctx, l.ID, copyLease(l)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update lease").
			WithReportableDetails(map[string]interface{}{
				"id": l.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *InMemoryLeaseStore) List(ctx context.Context, filter *types.LeaseFilter) ([]*lease.Lease, error) {
	if filter == nil {
		filter = types.NewLeaseFilter()
	}

	leases, err := s.InMemoryStore.List(ctx, filter, leaseFilterFn, leaseSortFn)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list leases").
			Mark(ierr.ErrDatabase)
	}

	leases = paginate(leases, filter.QueryFilter)
	return lo.Map(leases, func(l *lease.Lease, _ int) *lease.Lease {
		return copyLease(l)
	}), nil
}

func (s *InMemoryLeaseStore) ListActiveOn(ctx context.Context, date time.Time) ([]*lease.Lease, error) {
	filter := types.NewNoLimitLeaseFilter()
	filter.LeaseStatuses = []types.LeaseStatus{types.LeaseStatusActive}
	filter.ActiveOn = lo.ToPtr(date)
	return s.List(ctx, filter)
}

func (s *InMemoryLeaseStore) ListExpiredAsOf(ctx context.Context, asOf time.Time) ([]*lease.Lease, error) {
	leases, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, l *lease.Lease, _ interface{}) bool {
		return l.Status == types.StatusPublished &&
			l.LeaseStatus == types.LeaseStatusActive &&
			l.EndDate.Before(asOf)
	}, leaseSortFn)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list expired leases").
			Mark(ierr.ErrDatabase)
	}
	return lo.Map(leases, func(l *lease.Lease, _ int) *lease.Lease {
		return copyLease(l)
	}), nil
}

func (s *InMemoryLeaseStore) CountOpenByApplication(ctx context.Context, applicationID string) (int, error) {
	count, err := s.InMemoryStore.Count(ctx, nil, func(_ context.Context, l *lease.Lease, _ interface{}) bool {
		return l.Status == types.StatusPublished &&
			l.ApplicationID == applicationID &&
			(l.LeaseStatus == types.LeaseStatusPendingSignature || l.LeaseStatus == types.LeaseStatusActive)
	})
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count open leases").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (s *InMemoryLeaseStore) UpsertSignature(ctx context.Context, sig *lease.LeaseSignature) error {
	if sig == nil {
		return ierr.NewError("signature cannot be nil").
			WithHint("Signature cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sigs := s.signatures[sig.LeaseID]
	for i, existing := range sigs {
		if existing.SignerRole == sig.SignerRole {
			sigs[i] = copySignature(sig)
			return nil
		}
	}
	s.signatures[sig.LeaseID] = append(sigs, copySignature(sig))
	return nil
}

func (s *InMemoryLeaseStore) ListSignatures(ctx context.Context, leaseID string) ([]*lease.LeaseSignature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Map(s.signatures[leaseID], func(sig *lease.LeaseSignature, _ int) *lease.LeaseSignature {
		return copySignature(sig)
	}), nil
}

func (s *InMemoryLeaseStore) NextLeaseNumber(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	return fmt.Sprintf("LSE-2025-%05d", s.sequence), nil
}

func leaseFilterFn(_ context.Context, l *lease.Lease, filter interface{}) bool {
	if l == nil {
		return false
	}

	f, ok := filter.(*types.LeaseFilter)
	if !ok || f == nil {
		return true
	}

	if l.Status != f.GetStatus() {
		return false
	}
	if len(f.LeaseIDs) > 0 && !lo.Contains(f.LeaseIDs, l.ID) {
		return false
	}
	if len(f.PropertyIDs) > 0 && !lo.Contains(f.PropertyIDs, l.PropertyID) {
		return false
	}
	if len(f.TenantIDs) > 0 && !lo.Contains(f.TenantIDs, l.TenantID) {
		return false
	}
	if len(f.LeaseStatuses) > 0 && !lo.Contains(f.LeaseStatuses, l.LeaseStatus) {
		return false
	}
	if f.ActiveOn != nil && !l.IsWithinTerm(*f.ActiveOn) {
		return false
	}
	return true
}

func leaseSortFn(i, j *lease.Lease) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

// paginate applies limit and offset from a query filter.
func paginate[T any](items []T, f *types.QueryFilter) []T {
	if f == nil || f.IsUnlimited() {
		return items
	}
	offset := f.GetOffset()
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit := f.GetLimit(); limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Clear clears the lease store.
func (s *InMemoryLeaseStore) Clear() {
	s.InMemoryStore.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signatures = make(map[string][]*lease.LeaseSignature)
	s.sequence = 0
}
