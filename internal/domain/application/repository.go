package application

import "context"

// Repository defines the interface for rental application persistence.
type Repository interface {
	Create(ctx context.Context, app *RentalApplication) error
	Get(ctx context.Context, id string) (*RentalApplication, error)
	Update(ctx context.Context, app *RentalApplication) error
}
