package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/queuetube/server/internal/repository/room"
)

type AdvanceResponse struct {
	IndexKey       int
	PlaylistLength int
	// Exhausted reports index_key >= playlist length: nothing is playing.
	Exhausted    bool
	CurrentVideo *PlaylistVideo
	Conns        []*websocket.Conn
}

// Advance moves the playback cursor forward by one and returns the
// resulting state. The cursor is not clamped, callers decide what to do
// once Exhausted is set.
func (s service) Advance(ctx context.Context, roomId string) (AdvanceResponse, error) {
	indexKey, err := s.roomRepo.IncrementIndex(ctx, roomId)
	if err != nil {
		if err == room.ErrRoomNotFound {
			return AdvanceResponse{}, ErrRoomNotFound
		}
		return AdvanceResponse{}, fmt.Errorf("failed to increment index: %w", err)
	}

	playlist, err := s.getPlaylist(ctx, roomId)
	if err != nil {
		return AdvanceResponse{}, err
	}

	var current *PlaylistVideo
	if indexKey < len(playlist) {
		current = &playlist[indexKey]
	}

	return AdvanceResponse{
		IndexKey:       indexKey,
		PlaylistLength: len(playlist),
		Exhausted:      indexKey >= len(playlist),
		CurrentVideo:   current,
		Conns:          s.connRepo.GetConnsByRoomId(roomId),
	}, nil
}

type ResetResponse struct {
	CurrentVideo *PlaylistVideo
	Conns        []*websocket.Conn
}

// Reset puts the playback cursor back to 0 unconditionally.
func (s service) Reset(ctx context.Context, roomId string) (ResetResponse, error) {
	if err := s.roomRepo.ResetIndex(ctx, roomId); err != nil {
		if err == room.ErrRoomNotFound {
			return ResetResponse{}, ErrRoomNotFound
		}
		return ResetResponse{}, fmt.Errorf("failed to reset index: %w", err)
	}

	playlist, err := s.getPlaylist(ctx, roomId)
	if err != nil {
		return ResetResponse{}, err
	}

	var current *PlaylistVideo
	if len(playlist) > 0 {
		current = &playlist[0]
	}

	return ResetResponse{
		CurrentVideo: current,
		Conns:        s.connRepo.GetConnsByRoomId(roomId),
	}, nil
}

func (s service) GetCurrentIndex(ctx context.Context, roomId string) (int, error) {
	indexKey, err := s.roomRepo.GetIndex(ctx, roomId)
	if err != nil {
		if err == room.ErrRoomNotFound {
			return 0, ErrRoomNotFound
		}
		return 0, fmt.Errorf("failed to get index: %w", err)
	}

	return indexKey, nil
}

// CurrentVideo recomputes the currently playing video from the live vote
// order on every call. A vote cast after playback starts can change which
// video occupies the cursor position, that is intended.
func (s service) CurrentVideo(ctx context.Context, roomId string) (*PlaylistVideo, error) {
	indexKey, err := s.GetCurrentIndex(ctx, roomId)
	if err != nil {
		return nil, err
	}

	playlist, err := s.getPlaylist(ctx, roomId)
	if err != nil {
		return nil, err
	}

	if indexKey >= len(playlist) {
		return nil, nil
	}

	return &playlist[indexKey], nil
}
