package repository

import (
	"context"

	"github.com/ryos-app/ryos-server/domain/model"
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context) ([]*model.Room, error)
	// Delete removes the room record, its message list and its membership set
	// in a single pipeline.
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, roomID, username string) error
	RemoveMember(ctx context.Context, roomID, username string) error
	GetMembers(ctx context.Context, roomID string) ([]string, error)
	// RefreshUserCount recomputes the stored user count from the membership
	// set size and returns the new value.
	RefreshUserCount(ctx context.Context, roomID string) (int, error)
}
