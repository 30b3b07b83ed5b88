package postgres

import (
	"context"
	"time"
)

// IClient is the transactional surface services depend on, kept narrow so
// tests can substitute an in-memory implementation.
type IClient interface {
	// WithTx runs fn inside a transaction, nesting into an active one.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// LockKey acquires an advisory lock released at transaction end.
	LockKey(ctx context.Context, key string, timeout time.Duration) error
}

var _ IClient = (*Client)(nil)
