package postgres

import (
	"context"

	"github.com/rentflow/rentflow/internal/domain/application"
	ierr "github.com/rentflow/rentflow/internal/errors"
)

type applicationRepository struct {
	client *Client
}

// NewApplicationRepository returns a postgres-backed rental application repository.
func NewApplicationRepository(client *Client) application.Repository {
	return &applicationRepository{client: client}
}

func (r *applicationRepository) Create(ctx context.Context, app *application.RentalApplication) error {
	if err := app.Validate(); err != nil {
		return err
	}
	if err := r.client.Conn(ctx).Create(app).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create rental application").
			WithReportableDetails(map[string]interface{}{"application_id": app.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *applicationRepository) Get(ctx context.Context, id string) (*application.RentalApplication, error) {
	var app application.RentalApplication
	if err := r.client.Conn(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, notFound(err, "Rental application not found", map[string]interface{}{"application_id": id})
	}
	return &app, nil
}

func (r *applicationRepository) Update(ctx context.Context, app *application.RentalApplication) error {
	if err := app.Validate(); err != nil {
		return err
	}
	if err := r.client.Conn(ctx).Save(app).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update rental application").
			WithReportableDetails(map[string]interface{}{"application_id": app.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}
