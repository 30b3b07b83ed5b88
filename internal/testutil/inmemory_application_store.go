package testutil

import (
	"context"

	"github.com/rentflow/rentflow/internal/domain/application"
	ierr "github.com/rentflow/rentflow/internal/errors"
)

// InMemoryApplicationStore implements application.Repository.
type InMemoryApplicationStore struct {
	*InMemoryStore[*application.RentalApplication]
}

// NewInMemoryApplicationStore creates a new in-memory application store.
func NewInMemoryApplicationStore() *InMemoryApplicationStore {
	return &InMemoryApplicationStore{
		InMemoryStore: NewInMemoryStore[*application.RentalApplication](),
	}
}

func copyApplication(a *application.RentalApplication) *application.RentalApplication {
	if a == nil {
		return nil
	}
	copied := *a
	return &copied
}

func (s *InMemoryApplicationStore) Create(ctx context.Context, a *application.RentalApplication) error {
	if a == nil {
		return ierr.NewError("application cannot be nil").
			WithHint("Application cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := s.InMemoryStore.Create(ctx, a.ID, copyApplication(a)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create application").
			WithReportableDetails(map[string]interface{}{
				"id": a.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *InMemoryApplicationStore) Get(ctx context.Context, id string) (*application.RentalApplication, error) {
	a, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("application not found").
			WithHint("Application not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyApplication(a), nil
}

func (s *InMemoryApplicationStore) Update(ctx context.Context, a *application.RentalApplication) error {
	if a == nil {
		return ierr.NewError("application cannot be nil").
			WithHint("Application cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := s.InMemoryStore.Update(ctx, a.ID, copyApplication(a)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update application").
			WithReportableDetails(map[string]interface{}{
				"id": a.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}
