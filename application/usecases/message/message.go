package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ryos-app/ryos-server/application/usecases/user"
	"github.com/ryos-app/ryos-server/domain/model"
	"github.com/ryos-app/ryos-server/domain/repository"
	"github.com/ryos-app/ryos-server/infrastructure/logger"
	"go.uber.org/zap"
)

const maxContentLength = 2000

type MessageUseCase interface {
	Send(ctx context.Context, roomID string, username string, content string) (*model.Message, error)
	GetByRoom(ctx context.Context, roomID string) ([]*model.Message, error)
}

type messageUseCase struct {
	messageRepository repository.MessageRepository
	roomRepository    repository.RoomRepository
	userRepository    repository.UserRepository
	logger            *logger.Logger
}

func NewMessageUseCase(
	messageRepository repository.MessageRepository,
	roomRepository repository.RoomRepository,
	userRepository repository.UserRepository,
	logger *logger.Logger,
) MessageUseCase {
	return &messageUseCase{
		messageRepository: messageRepository,
		roomRepository:    roomRepository,
		userRepository:    userRepository,
		logger:            logger,
	}
}

func (uc *messageUseCase) Send(ctx context.Context, roomID string, username string, content string) (*model.Message, error) {
	username = user.NormalizeUsername(username)
	content = strings.TrimSpace(content)

	if roomID == "" {
		return nil, fmt.Errorf("%w: room ID cannot be empty", model.ErrInvalidInput)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", model.ErrInvalidInput)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: message content cannot be empty", model.ErrInvalidInput)
	}
	if len(content) > maxContentLength {
		return nil, fmt.Errorf("%w: message content cannot exceed %d characters", model.ErrInvalidInput, maxContentLength)
	}

	if _, err := uc.roomRepository.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	if _, err := uc.userRepository.GetByUsername(ctx, username); err != nil {
		return nil, err
	}

	message := &model.Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Username:  username,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	if err := uc.messageRepository.Append(ctx, message); err != nil {
		uc.logger.Error("failed to append message", zap.Error(err), zap.String("roomID", roomID), zap.String("username", username))
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if err := uc.userRepository.TouchLastActive(ctx, username); err != nil {
		uc.logger.Warn("failed to refresh user activity", zap.Error(err), zap.String("username", username))
	}

	return message, nil
}

func (uc *messageUseCase) GetByRoom(ctx context.Context, roomID string) ([]*model.Message, error) {
	if roomID == "" {
		return nil, fmt.Errorf("%w: room ID cannot be empty", model.ErrInvalidInput)
	}

	if _, err := uc.roomRepository.GetByID(ctx, roomID); err != nil {
		if !errors.Is(err, model.ErrRoomNotFound) {
			uc.logger.Error("failed to get room for messages", zap.Error(err), zap.String("roomID", roomID))
		}
		return nil, err
	}

	messages, err := uc.messageRepository.GetByRoom(ctx, roomID)
	if err != nil {
		uc.logger.Error("failed to fetch messages", zap.Error(err), zap.String("roomID", roomID))
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return messages, nil
}
