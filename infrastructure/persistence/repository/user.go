package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/ryos-app/ryos-server/domain/model"
	domainrepository "github.com/ryos-app/ryos-server/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func userKey(username string) string {
	return userKeyPrefix + username
}

type userRepository struct {
	client *redis.Client
	tracer trace.Tracer
}

func NewUserRepository(client *redis.Client, tracer trace.Tracer) domainrepository.UserRepository {
	return &userRepository{
		client: client,
		tracer: tracer,
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx, span := r.tracer.Start(ctx, "userRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("user.username", user.Username))

	data, err := json.Marshal(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal user")
		return errors.Wrap(err, "failed to marshal user")
	}

	created, err := r.client.SetNX(ctx, userKey(user.Username), data, 0).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist user")
		return errors.Wrap(err, "failed to persist user")
	}

	if !created {
		return model.ErrUserExists
	}

	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, span := r.tracer.Start(ctx, "userRepository.GetByUsername")
	defer span.End()

	span.SetAttributes(attribute.String("user.username", username))

	data, err := r.client.Get(ctx, userKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch user")
		return nil, errors.Wrap(err, "failed to fetch user")
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal user")
		return nil, errors.Wrap(err, "failed to unmarshal user")
	}

	return &user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	ctx, span := r.tracer.Start(ctx, "userRepository.GetAll")
	defer span.End()

	var keys []string

	iter := r.client.Scan(ctx, 0, userKeyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to scan user keys")
		return nil, errors.Wrap(err, "failed to scan user keys")
	}

	if len(keys) == 0 {
		return []*model.User{}, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to batch fetch users")
		return nil, errors.Wrap(err, "failed to batch fetch users")
	}

	users := make([]*model.User, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var user model.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			continue
		}

		users = append(users, &user)
	}

	span.SetAttributes(attribute.Int("user.count", len(users)))

	return users, nil
}

func (r *userRepository) TouchLastActive(ctx context.Context, username string) error {
	ctx, span := r.tracer.Start(ctx, "userRepository.TouchLastActive")
	defer span.End()

	span.SetAttributes(attribute.String("user.username", username))

	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	user.LastActive = time.Now().UTC()

	data, err := json.Marshal(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal user")
		return errors.Wrap(err, "failed to marshal user")
	}

	if err := r.client.Set(ctx, userKey(username), data, 0).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist user")
		return errors.Wrap(err, "failed to persist user")
	}

	return nil
}
