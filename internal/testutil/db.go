package testutil

import (
	"context"
	"time"

	"github.com/rentflow/rentflow/internal/repository/postgres"
)

// MockDBClient satisfies postgres.IClient for tests. In-memory stores are
// already consistent per call, so transactions are a pass-through and
// advisory locks are no-ops.
type MockDBClient struct{}

// NewMockDBClient creates a new mock database client.
func NewMockDBClient() postgres.IClient {
	return &MockDBClient{}
}

func (c *MockDBClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (c *MockDBClient) LockKey(ctx context.Context, key string, timeout time.Duration) error {
	return nil
}
