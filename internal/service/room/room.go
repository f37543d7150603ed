package room

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/queuetube/server/internal/repository/room"
)

// GetOrCreateRoom resolves a room by name, creating it with index_key=0 and
// no start time on first use. Two clients opening the same name
// concurrently converge to one room.
func (s service) GetOrCreateRoom(ctx context.Context, name string) (RoomState, error) {
	roomId, err := s.roomRepo.CreateRoom(ctx, &room.CreateRoomParams{
		RoomId: uuid.NewString(),
		Name:   name,
	})
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to create room: %w", err)
	}

	return s.GetRoomState(ctx, roomId)
}

func (s service) GetRoomState(ctx context.Context, roomId string) (RoomState, error) {
	rm, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		if err == room.ErrRoomNotFound {
			return RoomState{}, ErrRoomNotFound
		}
		return RoomState{}, fmt.Errorf("failed to get room: %w", err)
	}

	return RoomState{
		Id:        roomId,
		Name:      rm.Name,
		IndexKey:  rm.IndexKey,
		StartTime: millisToTime(rm.StartTime),
	}, nil
}

// MarkPlaybackStarted stamps the room with the current time. Calling it
// again simply overwrites the timestamp, last call wins.
func (s service) MarkPlaybackStarted(ctx context.Context, roomId string) error {
	if err := s.roomRepo.SetStartTime(ctx, roomId, time.Now().UnixMilli()); err != nil {
		if err == room.ErrRoomNotFound {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to set start time: %w", err)
	}

	return nil
}

func (s service) GetRoomSnapshot(ctx context.Context, roomId string) (RoomSnapshot, error) {
	return s.getSnapshot(ctx, roomId)
}

type StartPlaybackResponse struct {
	Snapshot RoomSnapshot
	Conns    []*websocket.Conn
}

// StartPlayback marks the room as playing and returns the room snapshot
// for broadcasting.
func (s service) StartPlayback(ctx context.Context, roomId string) (StartPlaybackResponse, error) {
	if err := s.MarkPlaybackStarted(ctx, roomId); err != nil {
		return StartPlaybackResponse{}, err
	}

	snapshot, err := s.getSnapshot(ctx, roomId)
	if err != nil {
		return StartPlaybackResponse{}, err
	}

	return StartPlaybackResponse{
		Snapshot: snapshot,
		Conns:    s.connRepo.GetConnsByRoomId(roomId),
	}, nil
}
