package redis

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queuetube/server/internal/repository/room"
)

func newTestRepo(t *testing.T) *repo {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	return NewRepo(rc, slog.Default())
}

func TestRegisterVideoFindOrCreate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.RegisterVideo(ctx, &room.RegisterVideoParams{
		VideoId:   "id-1",
		VideoName: "a",
		URL:       "https://youtu.be/a",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", first)

	// the second candidate id is discarded, the claimed one wins
	second, err := r.RegisterVideo(ctx, &room.RegisterVideoParams{
		VideoId:   "id-2",
		VideoName: "a again",
		URL:       "https://youtu.be/a",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", second)

	video, err := r.GetVideo(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "a", video.VideoName, "first write wins")

	_, err = r.GetVideo(ctx, "id-2")
	assert.ErrorIs(t, err, room.ErrVideoNotFound, "no second row may exist")

	videoIds, err := r.GetCatalogVideoIds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1"}, videoIds)
}

func TestCreateRoomFindOrCreate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r-1", Name: "lobby"})
	require.NoError(t, err)
	second, err := r.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r-2", Name: "lobby"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rm, err := r.GetRoom(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "lobby", rm.Name)
	assert.Equal(t, 0, rm.IndexKey)
	assert.Equal(t, int64(0), rm.StartTime)
}

func TestIndexOps(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.IncrementIndex(ctx, "missing")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
	assert.ErrorIs(t, r.ResetIndex(ctx, "missing"), room.ErrRoomNotFound)
	_, err = r.GetIndex(ctx, "missing")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	roomId, err := r.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r-1", Name: "lobby"})
	require.NoError(t, err)

	indexKey, err := r.IncrementIndex(ctx, roomId)
	require.NoError(t, err)
	assert.Equal(t, 1, indexKey)

	indexKey, err = r.IncrementIndex(ctx, roomId)
	require.NoError(t, err)
	assert.Equal(t, 2, indexKey)

	require.NoError(t, r.ResetIndex(ctx, roomId))
	indexKey, err = r.GetIndex(ctx, roomId)
	require.NoError(t, err)
	assert.Equal(t, 0, indexKey)
}

func TestPlaylistInsertIfAbsent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.AddVideoToPlaylist(ctx, &room.AddVideoToPlaylistParams{RoomId: "r-1", VideoId: "v-1"})
	require.NoError(t, err)
	assert.True(t, created)

	_, err = r.IncrementVotes(ctx, &room.IncrementVotesParams{RoomId: "r-1", VideoId: "v-1", Delta: 1})
	require.NoError(t, err)

	created, err = r.AddVideoToPlaylist(ctx, &room.AddVideoToPlaylistParams{RoomId: "r-1", VideoId: "v-1"})
	require.NoError(t, err)
	assert.False(t, created, "duplicate add is a no-op")

	votes, err := r.GetVotes(ctx, &room.GetVotesParams{RoomId: "r-1", VideoId: "v-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, votes, "duplicate add must not touch votes")
}

func TestVoteOrdering(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for _, videoId := range []string{"v-1", "v-2", "v-3"} {
		_, err := r.AddVideoToPlaylist(ctx, &room.AddVideoToPlaylistParams{RoomId: "r-1", VideoId: videoId})
		require.NoError(t, err)
	}

	videoIds, err := r.GetPlaylistVideoIds(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"v-1", "v-2", "v-3"}, videoIds, "zero votes keep creation order")

	_, err = r.IncrementVotes(ctx, &room.IncrementVotesParams{RoomId: "r-1", VideoId: "v-3", Delta: 1})
	require.NoError(t, err)
	_, err = r.IncrementVotes(ctx, &room.IncrementVotesParams{RoomId: "r-1", VideoId: "v-2", Delta: -1})
	require.NoError(t, err)

	videoIds, err = r.GetPlaylistVideoIds(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"v-3", "v-1", "v-2"}, videoIds)

	length, err := r.GetPlaylistLength(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, 3, length)
}

func TestVoteUnknownAssociation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.IncrementVotes(ctx, &room.IncrementVotesParams{RoomId: "r-1", VideoId: "v-1", Delta: 1})
	assert.ErrorIs(t, err, room.ErrVideoNotFound)

	_, err = r.GetVotes(ctx, &room.GetVotesParams{RoomId: "r-1", VideoId: "v-1"})
	assert.ErrorIs(t, err, room.ErrVideoNotFound)
}

func TestRemoveVideoFromPlaylist(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.AddVideoToPlaylist(ctx, &room.AddVideoToPlaylistParams{RoomId: "r-1", VideoId: "v-1"})
	require.NoError(t, err)

	require.NoError(t, r.RemoveVideoFromPlaylist(ctx, &room.RemoveVideoFromPlaylistParams{RoomId: "r-1", VideoId: "v-1"}))

	err = r.RemoveVideoFromPlaylist(ctx, &room.RemoveVideoFromPlaylistParams{RoomId: "r-1", VideoId: "v-1"})
	assert.ErrorIs(t, err, room.ErrVideoNotFound)

	_, err = r.GetVotes(ctx, &room.GetVotesParams{RoomId: "r-1", VideoId: "v-1"})
	assert.ErrorIs(t, err, room.ErrVideoNotFound, "association hash must be gone")
}

func TestUsers(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SaveUser(ctx, &room.SaveUserParams{
		ExternalId:  "g-1",
		DisplayName: "alex",
		AvatarURL:   "https://example.com/a.png",
	}))
	require.NoError(t, r.SaveUser(ctx, &room.SaveUserParams{
		ExternalId:  "g-2",
		DisplayName: "alex",
	}))

	users, err := r.GetUsersByDisplayName(ctx, "alex")
	require.NoError(t, err)
	assert.Equal(t, 2, len(users))

	users, err = r.GetUsersByDisplayName(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, users)
}
