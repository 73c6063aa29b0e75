package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ryos-app/ryos-server/domain/model"
	"github.com/ryos-app/ryos-server/domain/repository"
	"github.com/ryos-app/ryos-server/infrastructure/logger"
	"go.uber.org/zap"
)

const recordTimeout = 5 * time.Second

// AuditUseCase records room lifecycle events. Recording is fire-and-forget:
// failures are logged and never surfaced to the caller.
type AuditUseCase interface {
	RecordRoomEvent(eventType string, username string, roomID string, payload any)
	GetRoomHistory(ctx context.Context, roomID string, limit int) ([]*model.AuditLog, error)
}

type auditUseCase struct {
	repository repository.AuditLogRepository
	logger     *logger.Logger
}

func NewAuditUseCase(repository repository.AuditLogRepository, logger *logger.Logger) AuditUseCase {
	return &auditUseCase{
		repository: repository,
		logger:     logger,
	}
}

func (uc *auditUseCase) RecordRoomEvent(eventType string, username string, roomID string, payload any) {
	if uc.repository == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		uc.logger.Error("failed to marshal audit payload", zap.Error(err), zap.String("eventType", eventType))
		return
	}

	entry := &model.AuditLog{
		CreatedAt: time.Now().UTC(),
		EventID:   uuid.NewString(),
		EventType: eventType,
		Username:  username,
		Payload:   data,
		Success:   true,
	}
	if roomID != "" {
		entry.RoomID = sql.NullString{String: roomID, Valid: true}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := uc.repository.Record(ctx, entry); err != nil {
			uc.logger.Error("failed to record audit event",
				zap.Error(err),
				zap.String("eventType", eventType),
				zap.String("roomID", roomID),
			)
		}
	}()
}

func (uc *auditUseCase) GetRoomHistory(ctx context.Context, roomID string, limit int) ([]*model.AuditLog, error) {
	if uc.repository == nil {
		return []*model.AuditLog{}, nil
	}

	if limit <= 0 || limit > 100 {
		limit = 100
	}

	return uc.repository.GetByRoom(ctx, roomID, limit)
}
