package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc     *redis.Client
	logger *slog.Logger

	registerVideoScript string
	createRoomScript    string
	addToPlaylistScript string
	voteScript          string
}

func NewRepo(rc *redis.Client, logger *slog.Logger) *repo {
	return &repo{
		rc:     rc,
		logger: logger,
		// find-or-create video by url. The url index claim and the hash
		// write happen in one script, so two clients registering the same
		// url concurrently always converge to a single video id.
		registerVideoScript: rc.ScriptLoad(context.Background(), `
			local existing = redis.call('GET', KEYS[1])
			if existing then
				return existing
			end
			redis.call('SET', KEYS[1], ARGV[1])
			redis.call('HSET', KEYS[2],
				'video_name', ARGV[2],
				'creator', ARGV[3],
				'url', ARGV[4],
				'description', ARGV[5]
			)
			local seq = redis.call('INCR', KEYS[3])
			redis.call('ZADD', KEYS[4], seq, ARGV[1])
			return ARGV[1]
		`).Val(),
		// find-or-create room by name, index_key starts at 0
		createRoomScript: rc.ScriptLoad(context.Background(), `
			local existing = redis.call('GET', KEYS[1])
			if existing then
				return existing
			end
			redis.call('SET', KEYS[1], ARGV[1])
			redis.call('HSET', KEYS[2], 'name', ARGV[2], 'index_key', 0)
			return ARGV[1]
		`).Val(),
		// insert-if-absent into the playlist zset. Score is
		// votes - seq*1e-9: the integer part is the vote count, the
		// fractional part keeps equal-vote entries in creation order.
		addToPlaylistScript: rc.ScriptLoad(context.Background(), `
			if redis.call('ZSCORE', KEYS[1], ARGV[1]) then
				return 0
			end
			local seq = redis.call('INCR', KEYS[3])
			redis.call('ZADD', KEYS[1], -(seq * 1e-9), ARGV[1])
			redis.call('HSET', KEYS[2], 'votes', 0)
			return 1
		`).Val(),
		// relative vote update on both the exact counter and the
		// ordering score, nil reply if the association does not exist
		voteScript: rc.ScriptLoad(context.Background(), `
			if not redis.call('ZSCORE', KEYS[1], ARGV[1]) then
				return false
			end
			redis.call('ZINCRBY', KEYS[1], ARGV[2], ARGV[1])
			return redis.call('HINCRBY', KEYS[2], 'votes', ARGV[2])
		`).Val(),
	}
}
