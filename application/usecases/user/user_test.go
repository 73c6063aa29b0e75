package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ryos-app/ryos-server/application/usecases/user"
	"github.com/ryos-app/ryos-server/domain/model"
	"github.com/ryos-app/ryos-server/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) TouchLastActive(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func newUseCase(repo *MockUserRepository) user.UserUseCase {
	return user.NewUserUseCase(repo, &logger.Logger{Log: zap.NewNop()})
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", user.NormalizeUsername("  Alice "))
	assert.Equal(t, "", user.NormalizeUsername("   "))
}

func TestCreate_EmptyUsername(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUseCase(repo)

	_, err := uc.Create(context.Background(), "  ")

	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_OverlongUsername(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUseCase(repo)

	_, err := uc.Create(context.Background(), strings.Repeat("a", 31))

	assert.ErrorIs(t, err, model.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_StoresNormalizedUsername(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUseCase(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "alice" && !u.LastActive.IsZero()
	})).Return(nil)

	created, err := uc.Create(context.Background(), "Alice")

	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	repo.AssertExpectations(t)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUseCase(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(model.ErrUserExists)

	_, err := uc.Create(context.Background(), "alice")

	assert.ErrorIs(t, err, model.ErrUserExists)
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUseCase(repo)

	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, model.ErrUserNotFound)

	_, err := uc.GetByUsername(context.Background(), "ghost")

	assert.ErrorIs(t, err, model.ErrUserNotFound)
}
