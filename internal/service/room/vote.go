package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/queuetube/server/internal/repository/room"
)

type VoteDirection string

const (
	VoteUp   VoteDirection = "+"
	VoteDown VoteDirection = "-"
)

type ApplyVoteParams struct {
	RoomId    string
	VideoId   string
	Direction VoteDirection
}

type ApplyVoteResponse struct {
	Votes    int
	Playlist []PlaylistVideo
	Conns    []*websocket.Conn
}

// ApplyVote moves the association's vote count by exactly one. The update
// is relative all the way down to the store, interleaved votes from
// different clients all land. No floor or ceiling: votes can go negative.
func (s service) ApplyVote(ctx context.Context, params *ApplyVoteParams) (ApplyVoteResponse, error) {
	var delta int
	switch params.Direction {
	case VoteUp:
		delta = 1
	case VoteDown:
		delta = -1
	default:
		return ApplyVoteResponse{}, ErrInvalidVoteDirection
	}

	votes, err := s.roomRepo.IncrementVotes(ctx, &room.IncrementVotesParams{
		RoomId:  params.RoomId,
		VideoId: params.VideoId,
		Delta:   delta,
	})
	if err != nil {
		if err == room.ErrVideoNotFound {
			return ApplyVoteResponse{}, ErrVideoNotFound
		}
		return ApplyVoteResponse{}, fmt.Errorf("failed to increment votes: %w", err)
	}

	playlist, err := s.getPlaylist(ctx, params.RoomId)
	if err != nil {
		return ApplyVoteResponse{}, err
	}

	return ApplyVoteResponse{
		Votes:    votes,
		Playlist: playlist,
		Conns:    s.connRepo.GetConnsByRoomId(params.RoomId),
	}, nil
}
