package user

import "context"

// Repository defines the interface for user lookups.
type Repository interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
}
