package room

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queuetube/server/internal/repository/connection/inmemory"
	roomRedis "github.com/queuetube/server/internal/repository/room/redis"
)

func newTestService(t *testing.T) *service {
	t.Helper()

	s := miniredis.RunT(t)
	r := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	roomRepo := roomRedis.NewRepo(r, slog.Default())
	connRepo := inmemory.NewRepo(slog.Default())

	return NewService(roomRepo, connRepo, &Config{Secret: "test-secret"}, slog.Default())
}

func TestRegisterVideoIdempotent(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	first, err := service.RegisterVideo(ctx, &RegisterVideoParams{
		Title:       "Daft Punk - Around the World",
		Creator:     "Daft Punk",
		URL:         "https://youtu.be/dwDns8x3Jb4",
		Description: "official video",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.Id, "video id is empty")

	// same url must resolve to the existing row, even with different metadata
	second, err := service.RegisterVideo(ctx, &RegisterVideoParams{
		Title: "around the world (reupload)",
		URL:   "https://youtu.be/dwDns8x3Jb4",
	})
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id, "same url must yield the same video id")
	assert.Equal(t, first.VideoName, second.VideoName, "existing metadata must win")

	videos, err := service.ListVideos(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, len(videos), "catalog must contain exactly one row for the url")
}

func TestRegisterVideoConcurrent(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	const n = 16
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			video, err := service.RegisterVideo(ctx, &RegisterVideoParams{
				Title: "same video",
				URL:   "https://youtu.be/contended",
			})
			require.NoError(t, err)
			ids[i] = video.Id
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Equal(t, ids[0], ids[i], "concurrent registrations must converge to one id")
	}

	videos, err := service.ListVideos(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, len(videos))
}

func TestGetOrCreateRoomIdempotent(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	const n = 16
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			roomState, err := service.GetOrCreateRoom(ctx, "lobby")
			require.NoError(t, err)
			ids[i] = roomState.Id
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Equal(t, ids[0], ids[i], "concurrent opens of one name must converge to one room")
	}

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, 0, roomState.IndexKey, "new room must start at index 0")
	assert.Nil(t, roomState.StartTime, "start time must be unset until playback begins")
}

func TestGetRoomStateNotFound(t *testing.T) {
	service := newTestService(t)

	_, err := service.GetRoomState(context.Background(), "no-such-room")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestMarkPlaybackStarted(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)

	require.NoError(t, service.MarkPlaybackStarted(ctx, roomState.Id))

	updated, err := service.GetRoomState(ctx, roomState.Id)
	require.NoError(t, err)
	require.NotNil(t, updated.StartTime)

	first := *updated.StartTime

	// later calls overwrite, last call wins
	require.NoError(t, service.MarkPlaybackStarted(ctx, roomState.Id))
	updated, err = service.GetRoomState(ctx, roomState.Id)
	require.NoError(t, err)
	require.NotNil(t, updated.StartTime)
	assert.False(t, updated.StartTime.Before(first))
}

func TestVoteConservation(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)

	addVideoResp, err := service.AddVideoToRoom(ctx, &AddVideoParams{
		RoomId: roomState.Id,
		Title:  "a",
		URL:    "https://youtu.be/a",
	})
	require.NoError(t, err)
	videoId := addVideoResp.AddedVideo.Id

	const up, down = 40, 15
	var wg sync.WaitGroup
	vote := func(direction VoteDirection, count int) {
		defer wg.Done()
		for i := 0; i < count; i++ {
			_, err := service.ApplyVote(ctx, &ApplyVoteParams{
				RoomId:    roomState.Id,
				VideoId:   videoId,
				Direction: direction,
			})
			require.NoError(t, err)
		}
	}
	wg.Add(2)
	go vote(VoteUp, up)
	go vote(VoteDown, down)
	wg.Wait()

	playlist, err := service.ListRoomVideos(ctx, roomState.Id)
	require.NoError(t, err)
	require.Equal(t, 1, len(playlist))
	assert.Equal(t, up-down, playlist[0].Votes, "no vote may be lost under interleaving")
}

func TestVotesMayGoNegative(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)

	addVideoResp, err := service.AddVideoToRoom(ctx, &AddVideoParams{
		RoomId: roomState.Id,
		Title:  "a",
		URL:    "https://youtu.be/a",
	})
	require.NoError(t, err)

	applyVoteResp, err := service.ApplyVote(ctx, &ApplyVoteParams{
		RoomId:    roomState.Id,
		VideoId:   addVideoResp.AddedVideo.Id,
		Direction: VoteDown,
	})
	require.NoError(t, err)
	assert.Equal(t, -1, applyVoteResp.Votes, "no floor is enforced")
}

func TestApplyVoteUnknownVideo(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)

	_, err = service.ApplyVote(ctx, &ApplyVoteParams{
		RoomId:    roomState.Id,
		VideoId:   "missing",
		Direction: VoteUp,
	})
	assert.ErrorIs(t, err, ErrVideoNotFound)

	_, err = service.ApplyVote(ctx, &ApplyVoteParams{
		RoomId:    roomState.Id,
		VideoId:   "missing",
		Direction: "x",
	})
	assert.ErrorIs(t, err, ErrInvalidVoteDirection)
}

func TestOrderingFollowsVotes(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)

	urls := []string{"https://youtu.be/a", "https://youtu.be/b", "https://youtu.be/c"}
	ids := make([]string, 0, len(urls))
	for _, url := range urls {
		resp, err := service.AddVideoToRoom(ctx, &AddVideoParams{
			RoomId: roomState.Id,
			Title:  url,
			URL:    url,
		})
		require.NoError(t, err)
		ids = append(ids, resp.AddedVideo.Id)
	}

	// zero votes: stable creation order
	playlist, err := service.ListRoomVideos(ctx, roomState.Id)
	require.NoError(t, err)
	require.Equal(t, 3, len(playlist))
	assert.Equal(t, ids[0], playlist[0].Id)
	assert.Equal(t, ids[1], playlist[1].Id)
	assert.Equal(t, ids[2], playlist[2].Id)

	// one upvote moves c to the front
	_, err = service.ApplyVote(ctx, &ApplyVoteParams{
		RoomId:    roomState.Id,
		VideoId:   ids[2],
		Direction: VoteUp,
	})
	require.NoError(t, err)

	playlist, err = service.ListRoomVideos(ctx, roomState.Id)
	require.NoError(t, err)
	assert.Equal(t, ids[2], playlist[0].Id, "upvoted video must lead")
	assert.Equal(t, 1, playlist[0].Votes)
	assert.Equal(t, ids[0], playlist[1].Id)
	assert.Equal(t, ids[1], playlist[2].Id)

	// a downvote pushes b below the zero-vote entries
	_, err = service.ApplyVote(ctx, &ApplyVoteParams{
		RoomId:    roomState.Id,
		VideoId:   ids[1],
		Direction: VoteDown,
	})
	require.NoError(t, err)

	playlist, err = service.ListRoomVideos(ctx, roomState.Id)
	require.NoError(t, err)
	assert.Equal(t, ids[1], playlist[2].Id, "downvoted video must sink")
	assert.Equal(t, -1, playlist[2].Votes)
}

func TestNoDuplicateAssociation(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)

	first, err := service.AddVideoToRoom(ctx, &AddVideoParams{
		RoomId: roomState.Id,
		Title:  "a",
		URL:    "https://youtu.be/a",
	})
	require.NoError(t, err)

	_, err = service.ApplyVote(ctx, &ApplyVoteParams{
		RoomId:    roomState.Id,
		VideoId:   first.AddedVideo.Id,
		Direction: VoteUp,
	})
	require.NoError(t, err)

	// re-adding the same video is a no-op and must not reset votes
	second, err := service.AddVideoToRoom(ctx, &AddVideoParams{
		RoomId: roomState.Id,
		Title:  "a",
		URL:    "https://youtu.be/a",
	})
	require.NoError(t, err)
	assert.Equal(t, first.AddedVideo.Id, second.AddedVideo.Id)
	require.Equal(t, 1, len(second.Playlist), "exactly one association per pair")
	assert.Equal(t, 1, second.Playlist[0].Votes, "votes must survive a duplicate add")
}

func TestAdvanceAndReset(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)

	for _, url := range []string{"https://youtu.be/a", "https://youtu.be/b"} {
		_, err := service.AddVideoToRoom(ctx, &AddVideoParams{
			RoomId: roomState.Id,
			Title:  url,
			URL:    url,
		})
		require.NoError(t, err)
	}

	advanceResp, err := service.Advance(ctx, roomState.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, advanceResp.IndexKey)
	assert.False(t, advanceResp.Exhausted)
	require.NotNil(t, advanceResp.CurrentVideo)

	advanceResp, err = service.Advance(ctx, roomState.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, advanceResp.IndexKey)
	assert.True(t, advanceResp.Exhausted, "index == playlist length means exhausted")
	assert.Nil(t, advanceResp.CurrentVideo)

	// no upper clamp at this layer
	advanceResp, err = service.Advance(ctx, roomState.Id)
	require.NoError(t, err)
	assert.Equal(t, 3, advanceResp.IndexKey)

	resetResp, err := service.Reset(ctx, roomState.Id)
	require.NoError(t, err)
	require.NotNil(t, resetResp.CurrentVideo)

	indexKey, err := service.GetCurrentIndex(ctx, roomState.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, indexKey)
}

func TestCurrentVideoFollowsLiveVoteOrder(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)

	a, err := service.AddVideoToRoom(ctx, &AddVideoParams{
		RoomId: roomState.Id,
		Title:  "a",
		URL:    "https://youtu.be/a",
	})
	require.NoError(t, err)

	b, err := service.AddVideoToRoom(ctx, &AddVideoParams{
		RoomId: roomState.Id,
		Title:  "b",
		URL:    "https://youtu.be/b",
	})
	require.NoError(t, err)

	current, err := service.CurrentVideo(ctx, roomState.Id)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, a.AddedVideo.Id, current.Id)

	// a vote cast after playback starts changes what occupies position 0
	require.NoError(t, service.MarkPlaybackStarted(ctx, roomState.Id))
	_, err = service.ApplyVote(ctx, &ApplyVoteParams{
		RoomId:    roomState.Id,
		VideoId:   b.AddedVideo.Id,
		Direction: VoteUp,
	})
	require.NoError(t, err)

	current, err = service.CurrentVideo(ctx, roomState.Id)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, b.AddedVideo.Id, current.Id, "ordering is never frozen at playback start")
}

func TestRemoveVideoFromRoom(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)

	_, err = service.AddVideoToRoom(ctx, &AddVideoParams{
		RoomId: roomState.Id,
		Title:  "keep me",
		URL:    "https://youtu.be/keep",
	})
	require.NoError(t, err)

	_, err = service.AddVideoToRoom(ctx, &AddVideoParams{
		RoomId: roomState.Id,
		Title:  "drop me",
		URL:    "https://youtu.be/drop",
	})
	require.NoError(t, err)

	removeResp, err := service.RemoveVideoFromRoom(ctx, &RemoveVideoParams{
		RoomId:    roomState.Id,
		VideoName: "drop me",
	})
	require.NoError(t, err)
	require.Equal(t, 1, len(removeResp.Playlist))
	assert.Equal(t, "keep me", removeResp.Playlist[0].VideoName)

	// unknown names fail silently
	removeResp, err = service.RemoveVideoFromRoom(ctx, &RemoveVideoParams{
		RoomId:    roomState.Id,
		VideoName: "never existed",
	})
	require.NoError(t, err, "a miss must look like success")
	assert.Equal(t, 1, len(removeResp.Playlist))
}

func TestLobbyScenario(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	roomState, err := service.GetOrCreateRoom(ctx, "lobby")
	require.NoError(t, err)

	a, err := service.AddVideoToRoom(ctx, &AddVideoParams{
		RoomId: roomState.Id,
		Title:  "A",
		URL:    "a",
	})
	require.NoError(t, err)

	b, err := service.AddVideoToRoom(ctx, &AddVideoParams{
		RoomId: roomState.Id,
		Title:  "B",
		URL:    "b",
	})
	require.NoError(t, err)

	playlist, err := service.ListRoomVideos(ctx, roomState.Id)
	require.NoError(t, err)
	require.Equal(t, 2, len(playlist))
	assert.Equal(t, 0, playlist[0].Votes)
	assert.Equal(t, 0, playlist[1].Votes)
	assert.Equal(t, a.AddedVideo.Id, playlist[0].Id, "zero votes keep insertion order")

	_, err = service.ApplyVote(ctx, &ApplyVoteParams{
		RoomId:    roomState.Id,
		VideoId:   b.AddedVideo.Id,
		Direction: VoteUp,
	})
	require.NoError(t, err)

	playlist, err = service.ListRoomVideos(ctx, roomState.Id)
	require.NoError(t, err)
	assert.Equal(t, b.AddedVideo.Id, playlist[0].Id)
	assert.Equal(t, 1, playlist[0].Votes)
	assert.Equal(t, a.AddedVideo.Id, playlist[1].Id)
	assert.Equal(t, 0, playlist[1].Votes)

	_, err = service.Advance(ctx, roomState.Id)
	require.NoError(t, err)
	advanceResp, err := service.Advance(ctx, roomState.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, advanceResp.IndexKey)
	assert.True(t, advanceResp.Exhausted)

	indexKey, err := service.GetCurrentIndex(ctx, roomState.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, indexKey, "two videos, advanced twice: queue exhausted")
}

func TestSaveAndFindUser(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.SaveUser(ctx, &SaveUserParams{
		ExternalId:  "google-123",
		DisplayName: "alex",
		AvatarURL:   "https://example.com/a.png",
	}))
	require.NoError(t, service.SaveUser(ctx, &SaveUserParams{
		ExternalId:  "google-456",
		DisplayName: "alex",
	}))

	users, err := service.FindUser(ctx, "alex")
	require.NoError(t, err)
	assert.Equal(t, 2, len(users), "display names are not unique")

	users, err = service.FindUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestConnectTokenRoundTrip(t *testing.T) {
	service := newTestService(t)

	token, err := service.GenerateConnectToken("google-123", "room-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ParseConnectToken(token)
	require.NoError(t, err)
	assert.Equal(t, "google-123", claims.UserId)
	assert.Equal(t, "room-1", claims.RoomId)

	_, err = service.ParseConnectToken("garbage")
	assert.Error(t, err)
}
