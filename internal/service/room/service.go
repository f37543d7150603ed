package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/queuetube/server/internal/repository/room"
)

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrVideoNotFound        = errors.New("video not found")
	ErrInvalidVoteDirection = errors.New("invalid vote direction")
)

type iRoomRepo interface {
	// video catalog
	RegisterVideo(context.Context, *room.RegisterVideoParams) (string, error)
	GetVideo(context.Context, string) (room.Video, error)
	GetCatalogVideoIds(context.Context) ([]string, error)
	// room registry
	CreateRoom(context.Context, *room.CreateRoomParams) (string, error)
	GetRoom(context.Context, string) (room.Room, error)
	IncrementIndex(context.Context, string) (int, error)
	ResetIndex(context.Context, string) error
	GetIndex(context.Context, string) (int, error)
	SetStartTime(ctx context.Context, roomId string, startTime int64) error
	// playlist
	AddVideoToPlaylist(context.Context, *room.AddVideoToPlaylistParams) (bool, error)
	GetPlaylistVideoIds(context.Context, string) ([]string, error)
	GetPlaylistLength(context.Context, string) (int, error)
	IncrementVotes(context.Context, *room.IncrementVotesParams) (int, error)
	GetVotes(context.Context, *room.GetVotesParams) (int, error)
	RemoveVideoFromPlaylist(context.Context, *room.RemoveVideoFromPlaylistParams) error
	// users
	SaveUser(context.Context, *room.SaveUserParams) error
	GetUsersByDisplayName(context.Context, string) ([]room.User, error)
}

type iConnRepo interface {
	Add(conn *websocket.Conn, roomId string) error
	RemoveByConn(conn *websocket.Conn) error
	GetConnsByRoomId(roomId string) []*websocket.Conn
	GetRoomId(conn *websocket.Conn) (string, error)
}

type Config struct {
	Secret string
	// StrictPlaylistErrors surfaces storage errors from the association
	// step of AddVideoToRoom and from RemoveVideoFromRoom instead of
	// swallowing them. Off by default: a failed add or remove is then
	// indistinguishable from success for the caller.
	StrictPlaylistErrors bool
}

type service struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	logger   *slog.Logger
	secret   string
	strict   bool
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, cfg *Config, logger *slog.Logger) *service {
	return &service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		logger:   logger,
		secret:   cfg.Secret,
		strict:   cfg.StrictPlaylistErrors,
	}
}
