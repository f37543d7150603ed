package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/queuetube/server/internal/repository/room"
)

type AddVideoParams struct {
	RoomId      string
	Title       string
	Creator     string
	URL         string
	Description string
}

type AddVideoResponse struct {
	AddedVideo Video
	Playlist   []PlaylistVideo
	Conns      []*websocket.Conn
}

// AddVideoToRoom registers the video in the catalog and queues it in the
// room with votes=0. Queueing the same video twice is a no-op that leaves
// its votes untouched. A storage failure in the queueing step is logged and
// hidden from the caller unless StrictPlaylistErrors is set.
func (s service) AddVideoToRoom(ctx context.Context, params *AddVideoParams) (AddVideoResponse, error) {
	video, err := s.RegisterVideo(ctx, &RegisterVideoParams{
		Title:       params.Title,
		Creator:     params.Creator,
		URL:         params.URL,
		Description: params.Description,
	})
	if err != nil {
		return AddVideoResponse{}, err
	}

	if _, err := s.roomRepo.AddVideoToPlaylist(ctx, &room.AddVideoToPlaylistParams{
		RoomId:  params.RoomId,
		VideoId: video.Id,
	}); err != nil {
		if s.strict {
			return AddVideoResponse{}, fmt.Errorf("failed to add video to playlist: %w", err)
		}
		s.logger.ErrorContext(ctx, "failed to add video to playlist", "room_id", params.RoomId, "video_id", video.Id, "error", err)
	}

	playlist, err := s.getPlaylist(ctx, params.RoomId)
	if err != nil {
		return AddVideoResponse{}, err
	}

	return AddVideoResponse{
		AddedVideo: video,
		Playlist:   playlist,
		Conns:      s.connRepo.GetConnsByRoomId(params.RoomId),
	}, nil
}

// ListRoomVideos returns the room's queue ordered by votes descending,
// equal counts keeping the order the videos were queued in. This is the
// authoritative playlist order.
func (s service) ListRoomVideos(ctx context.Context, roomId string) ([]PlaylistVideo, error) {
	return s.getPlaylist(ctx, roomId)
}

type RemoveVideoParams struct {
	RoomId    string
	VideoName string
}

type RemoveVideoResponse struct {
	Playlist []PlaylistVideo
	Conns    []*websocket.Conn
}

// RemoveVideoFromRoom deletes the association of the first queued video
// whose display name matches. An unknown room or name is logged and
// reported as success. Display names can collide, removal by video id
// (RemoveVideoById) does not have that ambiguity.
func (s service) RemoveVideoFromRoom(ctx context.Context, params *RemoveVideoParams) (RemoveVideoResponse, error) {
	playlist, err := s.getPlaylist(ctx, params.RoomId)
	if err != nil {
		if s.strict {
			return RemoveVideoResponse{}, err
		}
		s.logger.ErrorContext(ctx, "failed to get playlist", "room_id", params.RoomId, "error", err)
		return RemoveVideoResponse{Conns: s.connRepo.GetConnsByRoomId(params.RoomId)}, nil
	}

	videoId := ""
	for _, video := range playlist {
		if video.VideoName == params.VideoName {
			videoId = video.Id
			break
		}
	}

	if videoId == "" {
		s.logger.InfoContext(ctx, "video to remove not found", "room_id", params.RoomId, "video_name", params.VideoName)
		return RemoveVideoResponse{
			Playlist: playlist,
			Conns:    s.connRepo.GetConnsByRoomId(params.RoomId),
		}, nil
	}

	return s.RemoveVideoById(ctx, params.RoomId, videoId)
}

// RemoveVideoById deletes the association keyed by (room, video).
func (s service) RemoveVideoById(ctx context.Context, roomId, videoId string) (RemoveVideoResponse, error) {
	if err := s.roomRepo.RemoveVideoFromPlaylist(ctx, &room.RemoveVideoFromPlaylistParams{
		RoomId:  roomId,
		VideoId: videoId,
	}); err != nil {
		if s.strict {
			if err == room.ErrVideoNotFound {
				return RemoveVideoResponse{}, ErrVideoNotFound
			}
			return RemoveVideoResponse{}, fmt.Errorf("failed to remove video from playlist: %w", err)
		}
		s.logger.ErrorContext(ctx, "failed to remove video from playlist", "room_id", roomId, "video_id", videoId, "error", err)
	}

	playlist, err := s.getPlaylist(ctx, roomId)
	if err != nil {
		return RemoveVideoResponse{}, err
	}

	return RemoveVideoResponse{
		Playlist: playlist,
		Conns:    s.connRepo.GetConnsByRoomId(roomId),
	}, nil
}
