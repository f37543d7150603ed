package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/queuetube/server/internal/service/room"
	"github.com/queuetube/server/pkg/rest"
)

func (c controller) listVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := c.roomService.ListVideos(r.Context())
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to list videos", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": videos})
}

type saveUserRequest struct {
	ExternalId  string `json:"external_id" validate:"required"`
	DisplayName string `json:"display_name" validate:"required,max=64"`
	AvatarURL   string `json:"avatar_url"`
}

func (c controller) saveUser(w http.ResponseWriter, r *http.Request) {
	var req saveUserRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.InfoContext(r.Context(), "saveUser", "read json err", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.InfoContext(r.Context(), "saveUser", "validate err", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if err := c.roomService.SaveUser(r.Context(), &room.SaveUserParams{
		ExternalId:  req.ExternalId,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to save user", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": "OK"})
}

func (c controller) findUser(w http.ResponseWriter, r *http.Request) {
	displayName := chi.URLParam(r, "display-name")
	if displayName == "" {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "user not found"})
		return
	}

	users, err := c.roomService.FindUser(r.Context(), displayName)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to find user", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": users})
}

type joinRoomRequest struct {
	RoomName    string `json:"room_name" validate:"required,max=64"`
	ExternalId  string `json:"external_id" validate:"required"`
	DisplayName string `json:"display_name" validate:"required,max=64"`
	AvatarURL   string `json:"avatar_url"`
}

type joinRoomResponse struct {
	ConnectToken string         `json:"connect_token"`
	Room         room.RoomState `json:"room"`
}

// joinRoom saves the caller's identity, resolves the named room (creating
// it on first join) and hands back a connect token for the websocket
// endpoint.
func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.InfoContext(r.Context(), "joinRoom", "read json err", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.InfoContext(r.Context(), "joinRoom", "validate err", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if err := c.roomService.SaveUser(r.Context(), &room.SaveUserParams{
		ExternalId:  req.ExternalId,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to save user", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	roomState, err := c.roomService.GetOrCreateRoom(r.Context(), req.RoomName)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to get or create room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	connectToken, err := c.roomService.GenerateConnectToken(req.ExternalId, roomState.Id)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to generate connect token", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": joinRoomResponse{
		ConnectToken: connectToken,
		Room:         roomState,
	}})
}

func (c controller) getRoomState(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	roomState, err := c.roomService.GetRoomState(r.Context(), roomId)
	if err != nil {
		if err == room.ErrRoomNotFound {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
			return
		}
		c.logger.WarnContext(r.Context(), "failed to get room state", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomState})
}

func (c controller) listRoomVideos(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	playlist, err := c.roomService.ListRoomVideos(r.Context(), roomId)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to list room videos", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": playlist})
}

func (c controller) getCurrentIndex(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	indexKey, err := c.roomService.GetCurrentIndex(r.Context(), roomId)
	if err != nil {
		if err == room.ErrRoomNotFound {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
			return
		}
		c.logger.WarnContext(r.Context(), "failed to get current index", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": indexKey})
}
