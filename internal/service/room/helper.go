package room

import (
	"context"
	"fmt"
	"time"

	"github.com/queuetube/server/internal/repository/room"
)

// getPlaylist reads the room's playlist in vote order, joining each video's
// metadata with its per-room vote count.
func (s service) getPlaylist(ctx context.Context, roomId string) ([]PlaylistVideo, error) {
	videoIds, err := s.roomRepo.GetPlaylistVideoIds(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist video ids: %w", err)
	}

	playlist := make([]PlaylistVideo, 0, len(videoIds))
	for _, videoId := range videoIds {
		video, err := s.roomRepo.GetVideo(ctx, videoId)
		if err != nil {
			return nil, fmt.Errorf("failed to get video: %w", err)
		}

		votes, err := s.roomRepo.GetVotes(ctx, &room.GetVotesParams{
			RoomId:  roomId,
			VideoId: videoId,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get votes: %w", err)
		}

		playlist = append(playlist, PlaylistVideo{
			Id:          videoId,
			VideoName:   video.VideoName,
			Creator:     video.Creator,
			URL:         video.URL,
			Description: video.Description,
			Votes:       votes,
		})
	}

	return playlist, nil
}

func (s service) getSnapshot(ctx context.Context, roomId string) (RoomSnapshot, error) {
	rm, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		if err == room.ErrRoomNotFound {
			return RoomSnapshot{}, ErrRoomNotFound
		}
		return RoomSnapshot{}, fmt.Errorf("failed to get room: %w", err)
	}

	playlist, err := s.getPlaylist(ctx, roomId)
	if err != nil {
		return RoomSnapshot{}, err
	}

	var current *PlaylistVideo
	if rm.IndexKey < len(playlist) {
		current = &playlist[rm.IndexKey]
	}

	return RoomSnapshot{
		Id:           roomId,
		Name:         rm.Name,
		IndexKey:     rm.IndexKey,
		StartTime:    millisToTime(rm.StartTime),
		Playlist:     playlist,
		CurrentVideo: current,
	}, nil
}

func millisToTime(millis int64) *time.Time {
	if millis == 0 {
		return nil
	}

	t := time.UnixMilli(millis)
	return &t
}
