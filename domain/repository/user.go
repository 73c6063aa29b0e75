package repository

import (
	"context"

	"github.com/ryos-app/ryos-server/domain/model"
)

type UserRepository interface {
	// Create persists the user only if the username is free. Returns
	// model.ErrUserExists otherwise; the existing record is left untouched.
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
	// TouchLastActive refreshes the user's lastActive timestamp.
	TouchLastActive(ctx context.Context, username string) error
}
