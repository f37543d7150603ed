package redis

import (
	"context"

	"github.com/queuetube/server/internal/repository/room"
)

func (r repo) getVideoKey(videoId string) string {
	return "video:" + videoId
}

func (r repo) getVideoURLKey(url string) string {
	return "video-url:" + url
}

func (r repo) getCatalogKey() string {
	return "videos"
}

func (r repo) getCatalogSeqKey() string {
	return "videos:seq"
}

// RegisterVideo resolves the video with the given url, creating it with
// params.VideoId if none exists yet. The returned id is the canonical one,
// which is not necessarily params.VideoId.
func (r repo) RegisterVideo(ctx context.Context, params *room.RegisterVideoParams) (string, error) {
	r.logger.DebugContext(ctx, "room.redis.RegisterVideo", "params", params)
	videoId, err := r.rc.EvalSha(ctx, r.registerVideoScript,
		[]string{
			r.getVideoURLKey(params.URL),
			r.getVideoKey(params.VideoId),
			r.getCatalogSeqKey(),
			r.getCatalogKey(),
		},
		params.VideoId, params.VideoName, params.Creator, params.URL, params.Description,
	).Text()
	if err != nil {
		return "", err
	}

	return videoId, nil
}

func (r repo) GetVideo(ctx context.Context, videoId string) (room.Video, error) {
	var video room.Video
	if err := r.rc.HGetAll(ctx, r.getVideoKey(videoId)).Scan(&video); err != nil {
		return room.Video{}, err
	}

	if video.URL == "" {
		return room.Video{}, room.ErrVideoNotFound
	}

	return video, nil
}

// GetCatalogVideoIds returns every registered video id in insertion order.
func (r repo) GetCatalogVideoIds(ctx context.Context) ([]string, error) {
	videoIds, err := r.rc.ZRange(ctx, r.getCatalogKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	return videoIds, nil
}
