package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/queuetube/server/internal/service/room"
)

type Output struct {
	Action string `json:"action"`
	Data   any    `json:"data"`
}

// connectRoom upgrades the request to a websocket and serves room messages
// on it. The connect token issued by the join endpoint carries the room and
// user ids.
func (c controller) connectRoom(w http.ResponseWriter, r *http.Request) {
	claims, err := c.roomService.ParseConnectToken(r.URL.Query().Get("token"))
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to parse connect token", "error", err)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	if err := c.roomService.ConnectClient(r.Context(), &room.ConnectClientParams{
		Conn:   conn,
		RoomId: claims.RoomId,
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to connect client", "error", err)
		conn.Close()
		return
	}
	defer c.roomService.DisconnectClient(r.Context(), conn)

	snapshot, err := c.roomService.GetRoomSnapshot(r.Context(), claims.RoomId)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to get room snapshot", "error", err)
		return
	}

	if err := conn.WriteJSON(&Output{
		Action: "joined_room",
		Data:   snapshot,
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to write json", "error", err)
		return
	}

	ctx := context.WithValue(r.Context(), roomIdCtxKey, claims.RoomId)
	ctx = context.WithValue(ctx, userIdCtxKey, claims.UserId)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(r.Context(), "connection closed", "error", err)
		return
	}
}

func (c controller) handleGetState(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	roomId := c.getRoomIdFromCtx(ctx)

	snapshot, err := c.roomService.GetRoomSnapshot(ctx, roomId)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to get room snapshot", "error", err)
		c.writeError(conn, err)
		return
	}

	if err := conn.WriteJSON(&Output{
		Action: "room_state",
		Data:   snapshot,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to write message", "error", err)
	}
}

func (c controller) handleAddVideo(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	roomId := c.getRoomIdFromCtx(ctx)

	var data struct {
		Title       string `json:"title" validate:"required,max=256"`
		Creator     string `json:"creator"`
		URL         string `json:"url" validate:"required,url"`
		Description string `json:"description"`
	}
	if err := c.unmarshalJSONorError(conn, payload, &data); err != nil {
		return
	}
	if validationErrors, ok := c.validate.Validate(data); !ok {
		c.logger.InfoContext(ctx, "handleAddVideo", "validate err", validationErrors)
		conn.WriteJSON(&Output{Action: "error", Data: validationErrors})
		return
	}

	c.logger.DebugContext(ctx, "add video", "user_id", c.getUserIdFromCtx(ctx), "url", data.URL)

	addVideoResponse, err := c.roomService.AddVideoToRoom(ctx, &room.AddVideoParams{
		RoomId:      roomId,
		Title:       data.Title,
		Creator:     data.Creator,
		URL:         data.URL,
		Description: data.Description,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to add video", "error", err)
		c.writeError(conn, err)
		return
	}

	c.broadcast(ctx, addVideoResponse.Conns, &Output{
		Action: "video_added",
		Data: map[string]any{
			"added_video": addVideoResponse.AddedVideo,
			"playlist":    addVideoResponse.Playlist,
		},
	})
}

func (c controller) handleRemoveVideo(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	roomId := c.getRoomIdFromCtx(ctx)

	var data struct {
		VideoName string `json:"video_name" validate:"required"`
	}
	if err := c.unmarshalJSONorError(conn, payload, &data); err != nil {
		return
	}
	if validationErrors, ok := c.validate.Validate(data); !ok {
		c.logger.InfoContext(ctx, "handleRemoveVideo", "validate err", validationErrors)
		conn.WriteJSON(&Output{Action: "error", Data: validationErrors})
		return
	}

	removeVideoResponse, err := c.roomService.RemoveVideoFromRoom(ctx, &room.RemoveVideoParams{
		RoomId:    roomId,
		VideoName: data.VideoName,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to remove video", "error", err)
		c.writeError(conn, err)
		return
	}

	c.broadcast(ctx, removeVideoResponse.Conns, &Output{
		Action: "video_removed",
		Data: map[string]any{
			"playlist": removeVideoResponse.Playlist,
		},
	})
}

func (c controller) handleVote(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	roomId := c.getRoomIdFromCtx(ctx)

	var data struct {
		VideoId   string `json:"video_id" validate:"required"`
		Direction string `json:"direction" validate:"required,oneof=+ -"`
	}
	if err := c.unmarshalJSONorError(conn, payload, &data); err != nil {
		return
	}
	if validationErrors, ok := c.validate.Validate(data); !ok {
		c.logger.InfoContext(ctx, "handleVote", "validate err", validationErrors)
		conn.WriteJSON(&Output{Action: "error", Data: validationErrors})
		return
	}

	applyVoteResponse, err := c.roomService.ApplyVote(ctx, &room.ApplyVoteParams{
		RoomId:    roomId,
		VideoId:   data.VideoId,
		Direction: room.VoteDirection(data.Direction),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to apply vote", "error", err)
		c.writeError(conn, err)
		return
	}

	c.broadcast(ctx, applyVoteResponse.Conns, &Output{
		Action: "votes_updated",
		Data: map[string]any{
			"video_id": data.VideoId,
			"votes":    applyVoteResponse.Votes,
			"playlist": applyVoteResponse.Playlist,
		},
	})
}

func (c controller) handleAdvance(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	roomId := c.getRoomIdFromCtx(ctx)

	advanceResponse, err := c.roomService.Advance(ctx, roomId)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to advance", "error", err)
		c.writeError(conn, err)
		return
	}

	c.broadcast(ctx, advanceResponse.Conns, &Output{
		Action: "queue_advanced",
		Data: map[string]any{
			"index_key":     advanceResponse.IndexKey,
			"exhausted":     advanceResponse.Exhausted,
			"current_video": advanceResponse.CurrentVideo,
		},
	})
}

func (c controller) handleReset(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	roomId := c.getRoomIdFromCtx(ctx)

	resetResponse, err := c.roomService.Reset(ctx, roomId)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to reset", "error", err)
		c.writeError(conn, err)
		return
	}

	c.broadcast(ctx, resetResponse.Conns, &Output{
		Action: "queue_reset",
		Data: map[string]any{
			"index_key":     0,
			"current_video": resetResponse.CurrentVideo,
		},
	})
}

func (c controller) handleStartPlayback(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	roomId := c.getRoomIdFromCtx(ctx)

	startPlaybackResponse, err := c.roomService.StartPlayback(ctx, roomId)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to start playback", "error", err)
		c.writeError(conn, err)
		return
	}

	c.broadcast(ctx, startPlaybackResponse.Conns, &Output{
		Action: "playback_started",
		Data:   startPlaybackResponse.Snapshot,
	})
}
