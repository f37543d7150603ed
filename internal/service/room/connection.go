package room

import (
	"context"

	"github.com/gorilla/websocket"
)

type ConnectClientParams struct {
	Conn   *websocket.Conn
	RoomId string
}

func (s service) ConnectClient(ctx context.Context, params *ConnectClientParams) error {
	return s.connRepo.Add(params.Conn, params.RoomId)
}

func (s service) DisconnectClient(ctx context.Context, conn *websocket.Conn) error {
	return s.connRepo.RemoveByConn(conn)
}
