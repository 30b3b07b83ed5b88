package postgres

import (
	"context"

	"github.com/rentflow/rentflow/internal/domain/user"
	ierr "github.com/rentflow/rentflow/internal/errors"
)

type userRepository struct {
	client *Client
}

// NewUserRepository returns a postgres-backed user repository.
func NewUserRepository(client *Client) user.Repository {
	return &userRepository{client: client}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if err := r.client.Conn(ctx).Create(u).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create user").
			WithReportableDetails(map[string]interface{}{"user_id": u.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := r.client.Conn(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err, "User not found", map[string]interface{}{"user_id": id})
	}
	return &u, nil
}
