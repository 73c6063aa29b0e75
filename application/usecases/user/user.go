package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ryos-app/ryos-server/domain/model"
	"github.com/ryos-app/ryos-server/domain/repository"
	"github.com/ryos-app/ryos-server/infrastructure/logger"
	"go.uber.org/zap"
)

const maxUsernameLength = 30

type UserUseCase interface {
	Create(ctx context.Context, username string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
}

type userUseCase struct {
	repository repository.UserRepository
	logger     *logger.Logger
}

func NewUserUseCase(repository repository.UserRepository, logger *logger.Logger) UserUseCase {
	return &userUseCase{
		repository: repository,
		logger:     logger,
	}
}

// NormalizeUsername canonicalizes a chat identity. Usernames are
// case-insensitive and stored lowercased.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (uc *userUseCase) Create(ctx context.Context, username string) (*model.User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", model.ErrInvalidInput)
	}
	if len(username) > maxUsernameLength {
		return nil, fmt.Errorf("%w: username cannot exceed %d characters", model.ErrInvalidInput, maxUsernameLength)
	}

	user := &model.User{
		Username:   username,
		LastActive: time.Now().UTC(),
	}

	if err := uc.repository.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			uc.logger.Info("username already taken", zap.String("username", username))
			return nil, err
		}
		uc.logger.Error("failed to create user", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uc.logger.Info("user created", zap.String("username", username))

	return user, nil
}

func (uc *userUseCase) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", model.ErrInvalidInput)
	}

	user, err := uc.repository.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			uc.logger.Error("failed to get user", zap.Error(err), zap.String("username", username))
		}
		return nil, err
	}

	return user, nil
}

func (uc *userUseCase) GetAll(ctx context.Context) ([]*model.User, error) {
	users, err := uc.repository.GetAll(ctx)
	if err != nil {
		uc.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}
