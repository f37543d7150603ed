package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/queuetube/server/internal/service/room"
	"github.com/queuetube/server/pkg/randstr"
	"github.com/queuetube/server/pkg/validator"
	"github.com/queuetube/server/pkg/wsrouter"
)

type iRoomService interface {
	// catalog
	ListVideos(context.Context) ([]room.Video, error)
	// rooms
	GetOrCreateRoom(ctx context.Context, name string) (room.RoomState, error)
	GetRoomState(ctx context.Context, roomId string) (room.RoomState, error)
	GetRoomSnapshot(ctx context.Context, roomId string) (room.RoomSnapshot, error)
	StartPlayback(ctx context.Context, roomId string) (room.StartPlaybackResponse, error)
	// playlist
	AddVideoToRoom(context.Context, *room.AddVideoParams) (room.AddVideoResponse, error)
	ListRoomVideos(ctx context.Context, roomId string) ([]room.PlaylistVideo, error)
	RemoveVideoFromRoom(context.Context, *room.RemoveVideoParams) (room.RemoveVideoResponse, error)
	// voting
	ApplyVote(context.Context, *room.ApplyVoteParams) (room.ApplyVoteResponse, error)
	// queue
	Advance(ctx context.Context, roomId string) (room.AdvanceResponse, error)
	Reset(ctx context.Context, roomId string) (room.ResetResponse, error)
	GetCurrentIndex(ctx context.Context, roomId string) (int, error)
	// users
	SaveUser(context.Context, *room.SaveUserParams) error
	FindUser(ctx context.Context, displayName string) ([]room.User, error)
	// sessions
	GenerateConnectToken(userId, roomId string) (string, error)
	ParseConnectToken(tokenString string) (*room.ConnectClaims, error)
	// connections
	ConnectClient(context.Context, *room.ConnectClientParams) error
	DisconnectClient(ctx context.Context, conn *websocket.Conn) error
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	generator   *randstr.Generator
	logger      *slog.Logger
	wsmux       *wsrouter.WSRouter
}

func NewController(roomService iRoomService, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		validate:    validator.NewValidator(),
		generator:   randstr.New([]byte("abcdefghijklmnopqrstuvwxyz0123456789")),
		logger:      logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
