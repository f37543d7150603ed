package redis

import (
	"context"

	"github.com/queuetube/server/internal/repository/room"
	"github.com/redis/go-redis/v9"
)

func (r repo) getPlaylistKey(roomId string) string {
	return "room:" + roomId + ":playlist"
}

func (r repo) getPlaylistSeqKey(roomId string) string {
	return "room:" + roomId + ":playlist:seq"
}

func (r repo) getAssociationKey(roomId, videoId string) string {
	return "room:" + roomId + ":video:" + videoId
}

// AddVideoToPlaylist creates the (room, video) association with votes=0.
// Adding a video that is already queued is a no-op and leaves its votes
// untouched. Returns whether a new association was created.
func (r repo) AddVideoToPlaylist(ctx context.Context, params *room.AddVideoToPlaylistParams) (bool, error) {
	r.logger.DebugContext(ctx, "room.redis.AddVideoToPlaylist", "params", params)
	created, err := r.rc.EvalSha(ctx, r.addToPlaylistScript,
		[]string{
			r.getPlaylistKey(params.RoomId),
			r.getAssociationKey(params.RoomId, params.VideoId),
			r.getPlaylistSeqKey(params.RoomId),
		},
		params.VideoId,
	).Int()
	if err != nil {
		return false, err
	}

	return created == 1, nil
}

// GetPlaylistVideoIds returns the room's video ids ordered by votes
// descending. Equal vote counts keep association creation order because of
// the sequence fraction encoded in the zset score.
func (r repo) GetPlaylistVideoIds(ctx context.Context, roomId string) ([]string, error) {
	videoIds, err := r.rc.ZRevRange(ctx, r.getPlaylistKey(roomId), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	return videoIds, nil
}

func (r repo) GetPlaylistLength(ctx context.Context, roomId string) (int, error) {
	length, err := r.rc.ZCard(ctx, r.getPlaylistKey(roomId)).Result()
	if err != nil {
		return 0, err
	}

	return int(length), nil
}

// IncrementVotes applies a relative ±1 update to the association's vote
// count and its ordering score in one atomic step, returning the new count.
func (r repo) IncrementVotes(ctx context.Context, params *room.IncrementVotesParams) (int, error) {
	r.logger.DebugContext(ctx, "room.redis.IncrementVotes", "params", params)
	votes, err := r.rc.EvalSha(ctx, r.voteScript,
		[]string{
			r.getPlaylistKey(params.RoomId),
			r.getAssociationKey(params.RoomId, params.VideoId),
		},
		params.VideoId, params.Delta,
	).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, room.ErrVideoNotFound
		}
		return 0, err
	}

	return votes, nil
}

func (r repo) GetVotes(ctx context.Context, params *room.GetVotesParams) (int, error) {
	field, err := r.rc.HGet(ctx, r.getAssociationKey(params.RoomId, params.VideoId), "votes").Result()
	if err != nil {
		if err == redis.Nil {
			return 0, room.ErrVideoNotFound
		}
		return 0, err
	}

	return r.fieldToInt(field), nil
}

func (r repo) RemoveVideoFromPlaylist(ctx context.Context, params *room.RemoveVideoFromPlaylistParams) error {
	res, err := r.rc.ZRem(ctx, r.getPlaylistKey(params.RoomId), params.VideoId).Result()
	if err != nil {
		return err
	}

	if res == 0 {
		return room.ErrVideoNotFound
	}

	if err := r.rc.Del(ctx, r.getAssociationKey(params.RoomId, params.VideoId)).Err(); err != nil {
		return err
	}

	return nil
}
