package lease

import (
	"context"
	"time"

	"github.com/rentflow/rentflow/internal/types"
)

// Repository defines the interface for lease persistence operations.
// Signatures are owned by their lease and only reachable through it.
type Repository interface {
	Create(ctx context.Context, lease *Lease) error
	Get(ctx context.Context, id string) (*Lease, error)
	GetByNumber(ctx context.Context, leaseNumber string) (*Lease, error)
	Update(ctx context.Context, lease *Lease) error
	List(ctx context.Context, filter *types.LeaseFilter) ([]*Lease, error)

	// ListActiveOn returns active leases whose term covers the given date.
	ListActiveOn(ctx context.Context, date time.Time) ([]*Lease, error)

	// ListExpiredAsOf returns active leases whose end date has passed.
	ListExpiredAsOf(ctx context.Context, asOf time.Time) ([]*Lease, error)

	// CountOpenByApplication counts leases originated from an application
	// that are still pending signature or active.
	CountOpenByApplication(ctx context.Context, applicationID string) (int, error)

	// UpsertSignature records a signature, replacing an existing one for the
	// same (lease, role) only when the signer is unchanged.
	UpsertSignature(ctx context.Context, sig *LeaseSignature) error
	ListSignatures(ctx context.Context, leaseID string) ([]*LeaseSignature, error)

	// NextLeaseNumber reserves the next lease number from the sequence.
	NextLeaseNumber(ctx context.Context) (string, error)
}
