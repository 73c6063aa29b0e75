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

const (
	roomKeyPrefix  = "chat:room:"
	roomsIndexKey  = "chat:rooms"
	membersSuffix  = ":users"
	messagesSuffix = ":messages"
	userKeyPrefix  = "chat:user:"
	scanBatchSize  = 100
)

func roomKey(roomID string) string {
	return roomKeyPrefix + roomID
}

func roomMembersKey(roomID string) string {
	return roomKeyPrefix + roomID + membersSuffix
}

func roomMessagesKey(roomID string) string {
	return roomKeyPrefix + roomID + messagesSuffix
}

type roomRepository struct {
	client *redis.Client
	tracer trace.Tracer
}

func NewRoomRepository(client *redis.Client, tracer trace.Tracer) domainrepository.RoomRepository {
	return &roomRepository{
		client: client,
		tracer: tracer,
	}
}

func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	ctx, span := r.tracer.Start(ctx, "roomRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("room.id", room.ID))

	data, err := json.Marshal(room)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal room")
		return errors.Wrap(err, "failed to marshal room")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, roomKey(room.ID), data, 0)
	pipe.SAdd(ctx, roomsIndexKey, room.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist room")
		return errors.Wrap(err, "failed to persist room")
	}

	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, roomID string) (*model.Room, error) {
	ctx, span := r.tracer.Start(ctx, "roomRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("room.id", roomID))

	data, err := r.client.Get(ctx, roomKey(roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch room")
		return nil, errors.Wrap(err, "failed to fetch room")
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal room")
		return nil, errors.Wrap(err, "failed to unmarshal room")
	}

	return &room, nil
}

func (r *roomRepository) GetAll(ctx context.Context) ([]*model.Room, error) {
	ctx, span := r.tracer.Start(ctx, "roomRepository.GetAll")
	defer span.End()

	roomIDs, err := r.client.SMembers(ctx, roomsIndexKey).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list room ids")
		return nil, errors.Wrap(err, "failed to list room ids")
	}

	if len(roomIDs) == 0 {
		return []*model.Room{}, nil
	}

	keys := make([]string, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		keys = append(keys, roomKey(roomID))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to batch fetch rooms")
		return nil, errors.Wrap(err, "failed to batch fetch rooms")
	}

	rooms := make([]*model.Room, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Index entry with no backing key, skip it.
			continue
		}

		var room model.Room
		if err := json.Unmarshal([]byte(raw), &room); err != nil {
			continue
		}

		rooms = append(rooms, &room)
	}

	span.SetAttributes(attribute.Int("room.count", len(rooms)))

	return rooms, nil
}

func (r *roomRepository) Delete(ctx context.Context, roomID string) error {
	ctx, span := r.tracer.Start(ctx, "roomRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("room.id", roomID))

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, roomKey(roomID), roomMessagesKey(roomID), roomMembersKey(roomID))
	pipe.SRem(ctx, roomsIndexKey, roomID)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete room")
		return errors.Wrap(err, "failed to delete room")
	}

	return nil
}

func (r *roomRepository) AddMember(ctx context.Context, roomID string, username string) error {
	ctx, span := r.tracer.Start(ctx, "roomRepository.AddMember")
	defer span.End()

	span.SetAttributes(
		attribute.String("room.id", roomID),
		attribute.String("user.username", username),
	)

	if err := r.client.SAdd(ctx, roomMembersKey(roomID), username).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add room member")
		return errors.Wrap(err, "failed to add room member")
	}

	return nil
}

func (r *roomRepository) RemoveMember(ctx context.Context, roomID string, username string) error {
	ctx, span := r.tracer.Start(ctx, "roomRepository.RemoveMember")
	defer span.End()

	span.SetAttributes(
		attribute.String("room.id", roomID),
		attribute.String("user.username", username),
	)

	if err := r.client.SRem(ctx, roomMembersKey(roomID), username).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to remove room member")
		return errors.Wrap(err, "failed to remove room member")
	}

	return nil
}

func (r *roomRepository) GetMembers(ctx context.Context, roomID string) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "roomRepository.GetMembers")
	defer span.End()

	span.SetAttributes(attribute.String("room.id", roomID))

	members, err := r.client.SMembers(ctx, roomMembersKey(roomID)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list room members")
		return nil, errors.Wrap(err, "failed to list room members")
	}

	return members, nil
}

func (r *roomRepository) RefreshUserCount(ctx context.Context, roomID string) (int, error) {
	ctx, span := r.tracer.Start(ctx, "roomRepository.RefreshUserCount")
	defer span.End()

	span.SetAttributes(attribute.String("room.id", roomID))

	count, err := r.client.SCard(ctx, roomMembersKey(roomID)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count room members")
		return 0, errors.Wrap(err, "failed to count room members")
	}

	room, err := r.GetByID(ctx, roomID)
	if err != nil {
		return 0, err
	}

	room.UserCount = int(count)

	data, err := json.Marshal(room)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal room")
		return 0, errors.Wrap(err, "failed to marshal room")
	}

	if err := r.client.Set(ctx, roomKey(roomID), data, 0).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist room")
		return 0, errors.Wrap(err, "failed to persist room")
	}

	return int(count), nil
}
