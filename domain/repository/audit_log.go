package repository

import (
	"context"

	"github.com/ryos-app/ryos-server/domain/model"
)

type AuditLogRepository interface {
	Record(ctx context.Context, entry *model.AuditLog) error
	GetByRoom(ctx context.Context, roomID string, limit int) ([]*model.AuditLog, error)
}
