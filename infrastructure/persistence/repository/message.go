package repository

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/ryos-app/ryos-server/domain/model"
	domainrepository "github.com/ryos-app/ryos-server/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type messageRepository struct {
	client *redis.Client
	tracer trace.Tracer
}

func NewMessageRepository(client *redis.Client, tracer trace.Tracer) domainrepository.MessageRepository {
	return &messageRepository{
		client: client,
		tracer: tracer,
	}
}

func (r *messageRepository) Append(ctx context.Context, message *model.Message) error {
	ctx, span := r.tracer.Start(ctx, "messageRepository.Append")
	defer span.End()

	span.SetAttributes(
		attribute.String("room.id", message.RoomID),
		attribute.String("message.id", message.ID),
	)

	data, err := json.Marshal(message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal message")
		return errors.Wrap(err, "failed to marshal message")
	}

	// Push and trim in one pipeline so the list never grows past the cap
	// between the two commands.
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, roomMessagesKey(message.RoomID), data)
	pipe.LTrim(ctx, roomMessagesKey(message.RoomID), -int64(model.MaxMessagesPerRoom), -1)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist message")
		return errors.Wrap(err, "failed to persist message")
	}

	return nil
}

func (r *messageRepository) GetByRoom(ctx context.Context, roomID string) ([]*model.Message, error) {
	ctx, span := r.tracer.Start(ctx, "messageRepository.GetByRoom")
	defer span.End()

	span.SetAttributes(attribute.String("room.id", roomID))

	values, err := r.client.LRange(ctx, roomMessagesKey(roomID), 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch messages")
		return nil, errors.Wrap(err, "failed to fetch messages")
	}

	messages := make([]*model.Message, 0, len(values))
	for _, raw := range values {
		var message model.Message
		if err := json.Unmarshal([]byte(raw), &message); err != nil {
			continue
		}

		messages = append(messages, &message)
	}

	span.SetAttributes(attribute.Int("message.count", len(messages)))

	return messages, nil
}

func (r *messageRepository) Count(ctx context.Context, roomID string) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "messageRepository.Count")
	defer span.End()

	span.SetAttributes(attribute.String("room.id", roomID))

	count, err := r.client.LLen(ctx, roomMessagesKey(roomID)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count messages")
		return 0, errors.Wrap(err, "failed to count messages")
	}

	return count, nil
}
