package repository

import (
	"context"

	"github.com/ryos-app/ryos-server/domain/model"
)

type MessageRepository interface {
	// Append pushes the message onto the room's list and trims it to the
	// newest model.MaxMessagesPerRoom entries in the same pipeline.
	Append(ctx context.Context, message *model.Message) error
	// GetByRoom returns the stored messages in chronological order.
	GetByRoom(ctx context.Context, roomID string) ([]*model.Message, error)
	Count(ctx context.Context, roomID string) (int64, error)
}
