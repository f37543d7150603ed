package inmemory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/queuetube/server/internal/repository/connection"
	"golang.org/x/exp/maps"
)

type repo struct {
	logger   *slog.Logger
	roomList map[*websocket.Conn]string
	connList map[string]map[*websocket.Conn]struct{}
	mu       sync.RWMutex
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		logger:   logger,
		roomList: make(map[*websocket.Conn]string),
		connList: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (r *repo) Add(conn *websocket.Conn, roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roomList[conn]; ok {
		r.logger.Info("connection.inmemory.Add", "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	r.roomList[conn] = roomId
	if r.connList[roomId] == nil {
		r.connList[roomId] = make(map[*websocket.Conn]struct{})
	}
	r.connList[roomId][conn] = struct{}{}

	return nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomId, ok := r.roomList[conn]
	if !ok {
		r.logger.Info("connection.inmemory.RemoveByConn", "error", connection.ErrNotFound)
		return connection.ErrNotFound
	}
	conn.Close()

	delete(r.roomList, conn)
	delete(r.connList[roomId], conn)
	if len(r.connList[roomId]) == 0 {
		delete(r.connList, roomId)
	}

	return nil
}

func (r *repo) GetConnsByRoomId(roomId string) []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Keys(r.connList[roomId])
}

func (r *repo) GetRoomId(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomId, ok := r.roomList[conn]
	if !ok {
		r.logger.Info("connection.inmemory.GetRoomId", "error", connection.ErrNotFound)
		return "", connection.ErrNotFound
	}

	return roomId, nil
}
