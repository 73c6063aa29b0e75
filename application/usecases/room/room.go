package room

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"github.com/ryos-app/ryos-server/application/usecases/audit"
	"github.com/ryos-app/ryos-server/application/usecases/user"
	"github.com/ryos-app/ryos-server/domain/model"
	"github.com/ryos-app/ryos-server/domain/repository"
	"github.com/ryos-app/ryos-server/infrastructure/logger"
	"go.uber.org/zap"
)

type RoomUseCase interface {
	Create(ctx context.Context, name string) (*model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context) ([]*model.Room, error)
	Delete(ctx context.Context, id string) error
	Join(ctx context.Context, roomID string, username string) (*model.Room, error)
	Leave(ctx context.Context, roomID string, username string) (*model.Room, error)
}

type roomUseCase struct {
	roomRepository    repository.RoomRepository
	userRepository    repository.UserRepository
	messageRepository repository.MessageRepository
	auditor           audit.AuditUseCase
	logger            *logger.Logger
}

func NewRoomUseCase(
	roomRepository repository.RoomRepository,
	userRepository repository.UserRepository,
	messageRepository repository.MessageRepository,
	auditor audit.AuditUseCase,
	logger *logger.Logger,
) RoomUseCase {
	return &roomUseCase{
		roomRepository:    roomRepository,
		userRepository:    userRepository,
		messageRepository: messageRepository,
		auditor:           auditor,
		logger:            logger,
	}
}

func (uc *roomUseCase) Create(ctx context.Context, name string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name cannot be empty", model.ErrInvalidInput)
	}

	room := &model.Room{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		UserCount: 0,
	}

	if err := uc.roomRepository.Create(ctx, room); err != nil {
		uc.logger.Error("failed to create room", zap.Error(err), zap.String("roomName", name))
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	uc.logger.Info("room created", zap.String("roomID", room.ID), zap.String("roomName", room.Name))
	uc.auditor.RecordRoomEvent(model.AuditRoomCreated, "", room.ID, room)

	return room, nil
}

func (uc *roomUseCase) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: room ID cannot be empty", model.ErrInvalidInput)
	}

	room, err := uc.roomRepository.GetByID(ctx, id)
	if err != nil {
		if !errorsIsNotFound(err) {
			uc.logger.Error("failed to get room", zap.Error(err), zap.String("roomID", id))
		}
		return nil, err
	}

	return room, nil
}

func (uc *roomUseCase) GetAll(ctx context.Context) ([]*model.Room, error) {
	rooms, err := uc.roomRepository.GetAll(ctx)
	if err != nil {
		uc.logger.Error("failed to list rooms", zap.Error(err))
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	// Stable, human-friendly ordering for clients ("room 2" before "room 10").
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Name == rooms[j].Name {
			return rooms[i].ID < rooms[j].ID
		}
		return natural.Less(rooms[i].Name, rooms[j].Name)
	})

	return rooms, nil
}

func (uc *roomUseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: room ID cannot be empty", model.ErrInvalidInput)
	}

	room, err := uc.roomRepository.GetByID(ctx, id)
	if err != nil {
		if !errorsIsNotFound(err) {
			uc.logger.Error("failed to get room for deletion", zap.Error(err), zap.String("roomID", id))
		}
		return err
	}

	// Snapshot what is about to be destroyed so the audit trail keeps it.
	members, err := uc.roomRepository.GetMembers(ctx, id)
	if err != nil {
		uc.logger.Warn("failed to list members before deletion", zap.Error(err), zap.String("roomID", id))
	}

	messageCount, err := uc.messageRepository.Count(ctx, id)
	if err != nil {
		uc.logger.Warn("failed to count messages before deletion", zap.Error(err), zap.String("roomID", id))
	}

	if err := uc.roomRepository.Delete(ctx, id); err != nil {
		uc.logger.Error("failed to delete room", zap.Error(err), zap.String("roomID", id))
		return fmt.Errorf("failed to delete room: %w", err)
	}

	uc.logger.Info("room deleted",
		zap.String("roomID", id),
		zap.String("roomName", room.Name),
		zap.Int("memberCount", len(members)),
		zap.Int64("messageCount", messageCount),
	)
	uc.auditor.RecordRoomEvent(model.AuditRoomDeleted, "", id, deletedRoomRecord{
		Room:         room,
		Members:      members,
		MessageCount: messageCount,
	})

	return nil
}

// deletedRoomRecord is the audit payload for room deletion.
type deletedRoomRecord struct {
	Room         *model.Room `json:"room"`
	Members      []string    `json:"members"`
	MessageCount int64       `json:"messageCount"`
}

func (uc *roomUseCase) Join(ctx context.Context, roomID string, username string) (*model.Room, error) {
	username = user.NormalizeUsername(username)
	if roomID == "" {
		return nil, fmt.Errorf("%w: room ID cannot be empty", model.ErrInvalidInput)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", model.ErrInvalidInput)
	}

	// Both sides must exist before any membership mutation.
	room, err := uc.roomRepository.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.userRepository.GetByUsername(ctx, username); err != nil {
		return nil, err
	}

	if err := uc.roomRepository.AddMember(ctx, roomID, username); err != nil {
		uc.logger.Error("failed to join room", zap.Error(err), zap.String("roomID", roomID), zap.String("username", username))
		return nil, fmt.Errorf("failed to join room: %w", err)
	}

	count, err := uc.roomRepository.RefreshUserCount(ctx, roomID)
	if err != nil {
		uc.logger.Error("failed to refresh user count", zap.Error(err), zap.String("roomID", roomID))
		return nil, fmt.Errorf("failed to refresh user count: %w", err)
	}
	room.UserCount = count

	if err := uc.userRepository.TouchLastActive(ctx, username); err != nil {
		uc.logger.Warn("failed to refresh user activity", zap.Error(err), zap.String("username", username))
	}

	uc.logger.Info("user joined room", zap.String("roomID", roomID), zap.String("username", username))
	uc.auditor.RecordRoomEvent(model.AuditRoomJoined, username, roomID, room)

	return room, nil
}

func (uc *roomUseCase) Leave(ctx context.Context, roomID string, username string) (*model.Room, error) {
	username = user.NormalizeUsername(username)
	if roomID == "" {
		return nil, fmt.Errorf("%w: room ID cannot be empty", model.ErrInvalidInput)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", model.ErrInvalidInput)
	}

	room, err := uc.roomRepository.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := uc.roomRepository.RemoveMember(ctx, roomID, username); err != nil {
		uc.logger.Error("failed to leave room", zap.Error(err), zap.String("roomID", roomID), zap.String("username", username))
		return nil, fmt.Errorf("failed to leave room: %w", err)
	}

	count, err := uc.roomRepository.RefreshUserCount(ctx, roomID)
	if err != nil {
		uc.logger.Error("failed to refresh user count", zap.Error(err), zap.String("roomID", roomID))
		return nil, fmt.Errorf("failed to refresh user count: %w", err)
	}
	room.UserCount = count

	uc.logger.Info("user left room", zap.String("roomID", roomID), zap.String("username", username))
	uc.auditor.RecordRoomEvent(model.AuditRoomLeft, username, roomID, room)

	return room, nil
}
