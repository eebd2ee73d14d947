// Package users is the credential store: user records keyed by username.
package users

import (
	"context"

	"github.com/dmitrijs2005/kasir/internal/server/models"
)

// Repository persists user credentials.
//
// Get returns common.ErrorNotFound for an unknown username. Put inserts or
// overwrites the record for user.UserName. Create only inserts and returns
// common.ErrDuplicateUser if the username is taken, so two racing
// registrations can never overwrite each other. Storage failures match
// common.ErrStorage.
type Repository interface {
	Get(ctx context.Context, username string) (*models.User, error)
	Put(ctx context.Context, user *models.User) error
	Create(ctx context.Context, user *models.User) error
	Exists(ctx context.Context, username string) (bool, error)
}
