package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/ryos-app/ryos-server/domain/model"
	domainrepository "github.com/ryos-app/ryos-server/domain/repository"
	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) domainrepository.AuditLogRepository {
	return &auditLogRepository{
		db: db,
	}
}

func (r *auditLogRepository) Record(ctx context.Context, entry *model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(err, "failed to record audit entry")
	}

	return nil
}

func (r *auditLogRepository) GetByRoom(ctx context.Context, roomID string, limit int) ([]*model.AuditLog, error) {
	var entries []*model.AuditLog

	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch audit entries")
	}

	return entries, nil
}
