package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/queuetube/server/internal/repository/room"
)

type RegisterVideoParams struct {
	Title       string
	Creator     string
	URL         string
	Description string
}

// RegisterVideo resolves a video by url, creating it on first reference.
// Registering the same url twice always yields the same video, no matter
// how the calls interleave.
func (s service) RegisterVideo(ctx context.Context, params *RegisterVideoParams) (Video, error) {
	videoId, err := s.roomRepo.RegisterVideo(ctx, &room.RegisterVideoParams{
		VideoId:     uuid.NewString(),
		VideoName:   params.Title,
		Creator:     params.Creator,
		URL:         params.URL,
		Description: params.Description,
	})
	if err != nil {
		return Video{}, fmt.Errorf("failed to register video: %w", err)
	}

	video, err := s.roomRepo.GetVideo(ctx, videoId)
	if err != nil {
		return Video{}, fmt.Errorf("failed to get video: %w", err)
	}

	return Video{
		Id:          videoId,
		VideoName:   video.VideoName,
		Creator:     video.Creator,
		URL:         video.URL,
		Description: video.Description,
	}, nil
}

// ListVideos returns the whole catalog in insertion order. Browsing only,
// playlist ordering never uses this.
func (s service) ListVideos(ctx context.Context) ([]Video, error) {
	videoIds, err := s.roomRepo.GetCatalogVideoIds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog video ids: %w", err)
	}

	videos := make([]Video, 0, len(videoIds))
	for _, videoId := range videoIds {
		video, err := s.roomRepo.GetVideo(ctx, videoId)
		if err != nil {
			return nil, fmt.Errorf("failed to get video: %w", err)
		}

		videos = append(videos, Video{
			Id:          videoId,
			VideoName:   video.VideoName,
			Creator:     video.Creator,
			URL:         video.URL,
			Description: video.Description,
		})
	}

	return videos, nil
}
