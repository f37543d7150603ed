package redis

import (
	"context"

	"github.com/queuetube/server/internal/repository/room"
	"github.com/redis/go-redis/v9"
)

func (r repo) getRoomKey(roomId string) string {
	return "room:" + roomId
}

func (r repo) getRoomNameKey(name string) string {
	return "room-name:" + name
}

// CreateRoom resolves the room with the given name, creating it with
// params.RoomId and index_key=0 if none exists yet. The returned id is the
// canonical one.
func (r repo) CreateRoom(ctx context.Context, params *room.CreateRoomParams) (string, error) {
	r.logger.DebugContext(ctx, "room.redis.CreateRoom", "params", params)
	roomId, err := r.rc.EvalSha(ctx, r.createRoomScript,
		[]string{
			r.getRoomNameKey(params.Name),
			r.getRoomKey(params.RoomId),
		},
		params.RoomId, params.Name,
	).Text()
	if err != nil {
		return "", err
	}

	return roomId, nil
}

func (r repo) GetRoom(ctx context.Context, roomId string) (room.Room, error) {
	var rm room.Room
	if err := r.rc.HGetAll(ctx, r.getRoomKey(roomId)).Scan(&rm); err != nil {
		return room.Room{}, err
	}

	if rm.Name == "" {
		return room.Room{}, room.ErrRoomNotFound
	}

	return rm, nil
}

// IncrementIndex advances the playback cursor by one and returns the
// resulting value. No upper bound is applied here, exhaustion is the
// caller's concern.
func (r repo) IncrementIndex(ctx context.Context, roomId string) (int, error) {
	roomKey := r.getRoomKey(roomId)
	exists, err := r.rc.Exists(ctx, roomKey).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, room.ErrRoomNotFound
	}

	indexKey, err := r.rc.HIncrBy(ctx, roomKey, "index_key", 1).Result()
	if err != nil {
		return 0, err
	}

	return int(indexKey), nil
}

func (r repo) ResetIndex(ctx context.Context, roomId string) error {
	roomKey := r.getRoomKey(roomId)
	exists, err := r.rc.Exists(ctx, roomKey).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return room.ErrRoomNotFound
	}

	return r.rc.HSet(ctx, roomKey, "index_key", 0).Err()
}

func (r repo) GetIndex(ctx context.Context, roomId string) (int, error) {
	field, err := r.rc.HGet(ctx, r.getRoomKey(roomId), "index_key").Result()
	if err != nil {
		if err == redis.Nil {
			return 0, room.ErrRoomNotFound
		}
		return 0, err
	}

	return r.fieldToInt(field), nil
}

// SetStartTime overwrites the playback start timestamp, last call wins.
func (r repo) SetStartTime(ctx context.Context, roomId string, startTime int64) error {
	roomKey := r.getRoomKey(roomId)
	exists, err := r.rc.Exists(ctx, roomKey).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return room.ErrRoomNotFound
	}

	return r.rc.HSet(ctx, roomKey, "start_time", startTime).Err()
}
