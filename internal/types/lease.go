package types

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	ierr "github.com/rentflow/rentflow/internal/errors"
)

// LeaseStatus represents the lifecycle state of a lease.
type LeaseStatus string

const (
	LeaseStatusDraft            LeaseStatus = "draft"
	LeaseStatusPendingSignature LeaseStatus = "pending_signature"
	LeaseStatusActive           LeaseStatus = "active"
	LeaseStatusTerminated       LeaseStatus = "terminated"
	LeaseStatusExpired          LeaseStatus = "expired"
	LeaseStatusRenewed          LeaseStatus = "renewed"
)

// Validate checks the lease status is a known value.
func (s LeaseStatus) Validate() error {
	switch s {
	case LeaseStatusDraft, LeaseStatusPendingSignature, LeaseStatusActive,
		LeaseStatusTerminated, LeaseStatusExpired, LeaseStatusRenewed:
		return nil
	}
	return ierr.NewErrorf("invalid lease status: %s", s).
		WithHint("Invalid lease status").
		Mark(ierr.ErrValidation)
}

// SignerRole identifies which party a lease signature belongs to.
type SignerRole string

const (
	SignerRoleLandlord SignerRole = "landlord"
	SignerRoleTenant   SignerRole = "tenant"
)

// RequiredSignerRoles are the roles that must have signed before a lease
// can become active.
var RequiredSignerRoles = []SignerRole{SignerRoleLandlord, SignerRoleTenant}

// Validate checks the signer role is a known value.
func (r SignerRole) Validate() error {
	switch r {
	case SignerRoleLandlord, SignerRoleTenant:
		return nil
	}
	return ierr.NewErrorf("invalid signer role: %s", r).
		WithHint("Signer role must be landlord or tenant").
		Mark(ierr.ErrValidation)
}

// ApplicationStatus represents the review state of a rental application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// LeaseFilter narrows lease queries.
type LeaseFilter struct {
	*QueryFilter
	LeaseIDs      []string      `json:"lease_ids,omitempty" form:"lease_ids"`
	PropertyIDs   []string      `json:"property_ids,omitempty" form:"property_ids"`
	TenantIDs     []string      `json:"tenant_ids,omitempty" form:"tenant_ids"`
	LeaseStatuses []LeaseStatus `json:"lease_statuses,omitempty" form:"lease_statuses"`
	ActiveOn      *time.Time    `json:"active_on,omitempty" form:"active_on"`
}

// NewLeaseFilter creates a lease filter with default pagination.
func NewLeaseFilter() *LeaseFilter {
	return &LeaseFilter{QueryFilter: NewDefaultQueryFilter()}
}

// NewNoLimitLeaseFilter creates a lease filter without pagination, for sweeps.
func NewNoLimitLeaseFilter() *LeaseFilter {
	return &LeaseFilter{QueryFilter: NewNoLimitQueryFilter()}
}

// Validate validates the lease filter.
func (f *LeaseFilter) Validate() error {
	if f.QueryFilter == nil {
		f.QueryFilter = NewDefaultQueryFilter()
	}
	return f.QueryFilter.Validate()
}

// LockScope represents the scope of a database advisory lock.
type LockScope string

const (
	LockScopeInvoiceGeneration LockScope = "invoice_generation"
	LockScopePaymentApply      LockScope = "payment_apply"
)

// GenerateLockKey builds a deterministic advisory-lock key from a scope and
// parameters. Postgres hashes the string internally via hashtext().
func GenerateLockKey(ctx context.Context, scope LockScope, params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(scope))
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(":%s=%v", k, params[k]))
	}
	return b.String()
}
