package user

import (
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

// User is the minimal directory record the core needs: who to notify.
type User struct {
	ID       string `json:"id" gorm:"column:id;primaryKey"`
	Email    string `json:"email" gorm:"column:email;uniqueIndex;not null"`
	FullName string `json:"full_name" gorm:"column:full_name"`
	types.BaseModel
}

// TableName implements the gorm table-name convention.
func (User) TableName() string {
	return string(types.TableNameUsers)
}

// Validate validates the user invariants.
func (u *User) Validate() error {
	if u.Email == "" {
		return ierr.NewError("email is required").
			WithHint("Email is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
